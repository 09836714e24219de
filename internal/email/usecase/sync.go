package usecase

import (
	"context"
	"errors"

	emaildomain "inboxmind-backend/internal/email/domain"
	emaildto "inboxmind-backend/internal/email/dto"

	"github.com/rs/zerolog/log"
)

// ErrNoGoogleAccount is returned when a Gmail sync is requested for a user
// without a linked Google account.
var ErrNoGoogleAccount = errors.New("no linked google account")

func (u *emailUsecase) SyncGmail(ctx context.Context, userID string) (*emaildto.SyncResponse, error) {
	account, err := u.userRepo.FindGoogleAccountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNoGoogleAccount
	}

	messages, err := u.gmail.FetchRecent(ctx, account.AccessToken, account.RefreshToken, int64(u.cfg.GmailSyncLimit))
	if err != nil {
		return nil, err
	}

	return u.ingestAll(ctx, userID, "gmail", messages)
}

func (u *emailUsecase) SyncIMAP(ctx context.Context, userID string, req *emaildto.IMAPSyncRequest) (*emaildto.SyncResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = u.cfg.GmailSyncLimit
	}

	messages, err := u.imap.FetchRecent(req.Addr, req.Username, req.Password, limit)
	if err != nil {
		return nil, err
	}

	return u.ingestAll(ctx, userID, "imap", messages)
}

func (u *emailUsecase) ingestAll(ctx context.Context, userID, source string, messages []emaildomain.IncomingMessage) (*emaildto.SyncResponse, error) {
	synced, skipped := 0, 0
	for _, msg := range messages {
		created, err := u.Ingest(ctx, userID, msg)
		if err != nil {
			return nil, err
		}
		if created {
			synced++
		} else {
			skipped++
		}
	}

	log.Info().Str("user_id", userID).Str("source", source).
		Int("synced", synced).Int("skipped", skipped).
		Msg("mailbox sync complete")

	return &emaildto.SyncResponse{Synced: synced, Skipped: skipped}, nil
}
