package usecase

import (
	"context"

	authdomain "inboxmind-backend/internal/auth/domain"
	authdto "inboxmind-backend/internal/auth/dto"

	"golang.org/x/oauth2"
)

// GoogleUserInfo is the subset of the Google userinfo response the backend
// needs to link an account.
type GoogleUserInfo struct {
	GoogleUserID string
	Email        string
	Name         string
}

// GoogleOAuth abstracts the Google OAuth flow (implemented by pkg/gmail).
type GoogleOAuth interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error)
}

// AuthUsecase defines the identity operations the HTTP layer depends on.
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)

	GoogleLoginURL(state string) string
	// GoogleCallback exchanges the authorization code, links or creates the
	// user, stores the OAuth tokens and triggers an initial mailbox sync.
	GoogleCallback(ctx context.Context, code string) (*authdto.TokenResponse, error)

	// SetEmailSyncCallback wires the post-login mailbox sync without a
	// package cycle between auth and email.
	SetEmailSyncCallback(cb func(ctx context.Context, userID string))
}
