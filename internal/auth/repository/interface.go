package repository

import authdomain "inboxmind-backend/internal/auth/domain"

// UserRepository defines the storage operations for users, refresh tokens and
// linked Google accounts. Finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(user *authdomain.User) error
	Update(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error

	FindGoogleAccountByGoogleID(googleUserID string) (*authdomain.GoogleAccount, error)
	FindGoogleAccountByUserID(userID string) (*authdomain.GoogleAccount, error)
	SaveGoogleAccount(account *authdomain.GoogleAccount) error
}
