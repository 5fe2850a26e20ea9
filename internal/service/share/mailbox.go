package share

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tastify/tastify-backend-go/internal/constants"
	"github.com/tastify/tastify-backend-go/internal/domain"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// Slot storage for the mailbox. Satisfied by the Redis cache service.
type SlotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string, dest any) (bool, error)
}

// Mailbox is the share-sheet handoff: a single slot per user holding the
// most recently shared video URL. Depositing overwrites any previous slot;
// taking clears it, so a shared link is consumed exactly once. Slots expire
// after the freshness window - a link shared ten minutes ago should not
// suddenly open an extraction when the app comes to the foreground.
type Mailbox struct {
	store  SlotStore
	window time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewMailbox(store SlotStore, logger *zap.Logger) *Mailbox {
	return &Mailbox{
		store:  store,
		window: constants.ShareConfig.FreshnessWindow,
		now:    time.Now,
		logger: logger,
	}
}

func slotKey(userID string) string {
	return fmt.Sprintf("share:slot:%s", userID)
}

// Deposit stores a shared URL for the user, replacing any earlier slot. The
// URL must pass the supported-platform check; the share sheet can hand over
// arbitrary strings.
func (m *Mailbox) Deposit(ctx context.Context, userID, rawURL string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.NewValidationError("user id is required", "user_id", userID)
	}
	if !domain.IsSupportedVideoURL(rawURL) {
		return apperrors.NewInvalidURLError(rawURL)
	}

	link := domain.SharedLink{
		URL:      rawURL,
		SharedAt: m.now(),
	}

	if err := m.store.Set(ctx, slotKey(userID), link, m.window); err != nil {
		return err
	}

	m.logger.Info("Shared link deposited", zap.String("user_id", userID))
	return nil
}

// Take consumes the user's slot. Returns nil when the slot is empty or
// stale. The Redis TTL already bounds staleness, but the deposit timestamp
// is re-checked here so the window holds even if the store's expiry lags.
func (m *Mailbox) Take(ctx context.Context, userID string) (*domain.SharedLink, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required", "user_id", userID)
	}

	var link domain.SharedLink
	found, err := m.store.GetDel(ctx, slotKey(userID), &link)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if !link.IsFresh(m.window, m.now()) {
		m.logger.Debug("Discarding stale shared link",
			zap.String("user_id", userID),
			zap.Time("shared_at", link.SharedAt))
		return nil, nil
	}

	m.logger.Info("Shared link consumed", zap.String("user_id", userID))
	return &link, nil
}
