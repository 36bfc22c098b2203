package referral

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"richmarket-bot/internal/models"
	"richmarket-bot/internal/store"
)

// Outcome tells the caller what a join attribution did. Only Credited moved
// money; the rest are no-op successes the handler does not surface to users.
type Outcome int

const (
	// Credited means a new edge was recorded and the bonus applied.
	Credited Outcome = iota + 1
	// AlreadyAttributed means the referred user already has an edge.
	AlreadyAttributed
	// UnknownCode means the referral code resolved to nobody.
	UnknownCode
	// SelfReferral means the code belongs to the joining user.
	SelfReferral
)

// Store is the slice of the account store the ledger needs.
type Store interface {
	UserByReferralCode(ctx context.Context, code string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	RecordReferral(ctx context.Context, referrerID, referredID int64, bonus float64) error
	ReferralCount(ctx context.Context, referrerID int64) (int64, error)
}

// Ledger turns "new user arrived via code X" events into at most one durable
// balance credit per referred user, however often the event repeats.
type Ledger struct {
	store Store
	bonus float64
}

func NewLedger(store Store, bonus float64) *Ledger {
	return &Ledger{store: store, bonus: bonus}
}

// AttributeAndCredit resolves code, guards against self-referral and repeat
// attribution, then records the edge and credits the referrer atomically.
func (l *Ledger) AttributeAndCredit(ctx context.Context, newUserID int64, code string) (Outcome, error) {
	referrer, err := l.store.UserByReferralCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("resolve referral code: %w", err)
	}
	if referrer == nil {
		return UnknownCode, nil
	}
	if referrer.TelegramID == newUserID {
		return SelfReferral, nil
	}

	user, err := l.store.UserByID(ctx, newUserID)
	if err != nil {
		return 0, fmt.Errorf("lookup referred user: %w", err)
	}
	if user != nil && user.ReferrerID != nil {
		return AlreadyAttributed, nil
	}

	err = l.store.RecordReferral(ctx, referrer.TelegramID, newUserID, l.bonus)
	switch {
	case errors.Is(err, store.ErrAlreadyReferred):
		// Concurrent duplicate attribution lost the race on the edge's
		// uniqueness; nothing was credited.
		return AlreadyAttributed, nil
	case errors.Is(err, store.ErrReferrerNotFound):
		log.WithField("referrer_id", referrer.TelegramID).Error("Referrer vanished before credit")
		return 0, err
	case err != nil:
		return 0, fmt.Errorf("record referral: %w", err)
	}

	log.WithFields(log.Fields{
		"referrer_id": referrer.TelegramID,
		"referred_id": newUserID,
		"bonus":       l.bonus,
	}).Info("Referral bonus credited")
	return Credited, nil
}

// Stats derives the referral count and total earnings from the edge table.
// Earnings are a projection (count × bonus), never a stored running total,
// so they cannot drift from the ledger.
func (l *Ledger) Stats(ctx context.Context, userID int64) (int64, float64, error) {
	count, err := l.store.ReferralCount(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("referral stats of user %d: %w", userID, err)
	}
	return count, float64(count) * l.bonus, nil
}

// Bonus is the configured per-referral credit.
func (l *Ledger) Bonus() float64 {
	return l.bonus
}
