package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"time"

	authusecase "inboxmind-backend/internal/auth/usecase"
	emaildomain "inboxmind-backend/internal/email/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Service wraps the Google OAuth flow and the Gmail message fetch used by
// ingestion. It implements both usecase.GoogleOAuth and usecase.GmailFetcher.
type Service struct {
	config *oauth2.Config
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				gmail.GmailReadonlyScope,
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
		},
	}
}

func (s *Service) AuthURL(state string) string {
	return s.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.config.Exchange(ctx, code)
}

func (s *Service) UserInfo(ctx context.Context, token *oauth2.Token) (*authusecase.GoogleUserInfo, error) {
	client := s.config.Client(ctx, token)

	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch userinfo: %w", err)
	}

	return &authusecase.GoogleUserInfo{
		GoogleUserID: info.Id,
		Email:        info.Email,
		Name:         info.Name,
	}, nil
}

// FetchRecent lists the most recent messages in the user's mailbox and
// returns them as decoded ingestion tuples. Messages that cannot be fetched
// individually are logged and skipped rather than failing the whole sync.
func (s *Service) FetchRecent(ctx context.Context, accessToken, refreshToken string, max int64) ([]emaildomain.IncomingMessage, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	// Force a refresh when we can, so a stale access token doesn't fail the sync
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	srv, err := gmail.NewService(ctx, option.WithTokenSource(s.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	user := "me"
	listResp, err := srv.Users.Messages.List(user).MaxResults(max).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	messages := make([]emaildomain.IncomingMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		full, err := srv.Users.Messages.Get(user, ref.Id).Format("full").Do()
		if err != nil {
			log.Warn().Err(err).Str("message_id", ref.Id).Msg("skipping unfetchable message")
			continue
		}
		messages = append(messages, parseMessage(full))
	}

	return messages, nil
}

// parseMessage extracts the sender, received time and plain-text body from a
// full Gmail message.
func parseMessage(msg *gmail.Message) emaildomain.IncomingMessage {
	out := emaildomain.IncomingMessage{MessageID: msg.Id}

	payload := msg.Payload
	if payload == nil {
		return out
	}

	for _, header := range payload.Headers {
		switch header.Name {
		case "From":
			out.Sender = parseSender(header.Value)
		case "Date":
			if parsed, err := mail.ParseDate(header.Value); err == nil {
				out.ReceivedAt = parsed
			}
		}
	}

	out.Body = extractBody(payload)
	return out
}

// parseSender reduces "Name <addr>" headers to the bare address.
func parseSender(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	return from
}

// extractBody prefers the top-level body and falls back to the first
// text/plain part.
func extractBody(payload *gmail.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			return decodeBase64URL(part.Body.Data)
		}
	}
	return ""
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail omits padding on some parts
		decoded, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
