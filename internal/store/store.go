package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"richmarket-bot/internal/models"
)

var (
	// ErrReferrerNotFound means the referrer row vanished between code
	// resolution and the credit transaction.
	ErrReferrerNotFound = errors.New("referrer not found")
	// ErrAlreadyReferred means a referral edge for the referred user
	// already exists; no credit was applied.
	ErrAlreadyReferred = errors.New("user already referred")
	// ErrItemNotFound means a catalog update targeted a missing item.
	ErrItemNotFound = errors.New("item not found")
)

// Store owns all persisted state: users, balances, referral edges and the
// catalog. Every component reads and mutates rows through it.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertUser creates the user on first contact, assigning a fresh referral
// code and recording the referrer permanently. On later contacts only the
// name fields are overwritten; an already-set referrer is never altered.
func (s *Store) UpsertUser(ctx context.Context, id int64, username, firstName, lastName string, referrerID *int64) (bool, error) {
	var existing models.User
	err := s.db.WithContext(ctx).First(&existing, "telegram_id = ?", id).Error
	switch {
	case err == nil:
		return false, s.updateNames(ctx, id, username, firstName, lastName)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if referrerID != nil && *referrerID == id {
			referrerID = nil
		}
		user := models.User{
			TelegramID:   id,
			Username:     username,
			FirstName:    firstName,
			LastName:     lastName,
			ReferralCode: NewReferralCode(),
			ReferrerID:   referrerID,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent create race; treat as a repeat sighting.
				return false, s.updateNames(ctx, id, username, firstName, lastName)
			}
			return false, fmt.Errorf("create user %d: %w", id, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("lookup user %d: %w", id, err)
	}
}

func (s *Store) updateNames(ctx context.Context, id int64, username, firstName, lastName string) error {
	updates := map[string]any{
		"username":   username,
		"first_name": firstName,
		"last_name":  lastName,
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("telegram_id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

// NewReferralCode returns an 8-character uppercase hex token.
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// UserByID returns nil without error when the user is unknown.
func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "telegram_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", id, err)
	}
	return &user, nil
}

// UserByReferralCode returns nil without error when the code resolves to
// nobody.
func (s *Store) UserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "referral_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup referral code %q: %w", code, err)
	}
	return &user, nil
}

// CreditBalance adds amount to the user's balance in a single statement.
func (s *Store) CreditBalance(ctx context.Context, id int64, amount float64) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("credit balance of user %d: %w", id, err)
	}
	return nil
}

// Balance reports zero for unknown users, matching how the storefront
// treats someone it has never seen.
func (s *Store) Balance(ctx context.Context, id int64) (float64, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("balance").First(&user, "telegram_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance of user %d: %w", id, err)
	}
	return user.Balance, nil
}

func (s *Store) AllUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("telegram_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *Store) ReferralCount(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReferralEdge{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count referrals of user %d: %w", referrerID, err)
	}
	return count, nil
}

// RecordReferral creates the referral edge and credits the referrer in one
// transaction. The unique index on referred_id makes the edge insert fail
// for a duplicate before any balance is touched, so a concurrent duplicate
// attribution rolls back without crediting.
func (s *Store) RecordReferral(ctx context.Context, referrerID, referredID int64, bonus float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referrer models.User
		if err := tx.First(&referrer, "telegram_id = ?", referrerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferrerNotFound
			}
			return fmt.Errorf("lookup referrer %d: %w", referrerID, err)
		}

		edge := models.ReferralEdge{
			ReferrerID: referrerID,
			ReferredID: referredID,
			BonusPaid:  true,
		}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReferred
			}
			return fmt.Errorf("create referral edge %d -> %d: %w", referrerID, referredID, err)
		}

		// First-write-wins: only fill the referrer slot if still empty.
		err := tx.Model(&models.User{}).
			Where("telegram_id = ? AND referrer_id IS NULL", referredID).
			Update("referrer_id", referrerID).Error
		if err != nil {
			return fmt.Errorf("set referrer of user %d: %w", referredID, err)
		}

		err = tx.Model(&models.User{}).
			Where("telegram_id = ?", referrerID).
			Update("balance", gorm.Expr("balance + ?", bonus)).Error
		if err != nil {
			return fmt.Errorf("credit referrer %d: %w", referrerID, err)
		}
		return nil
	})
}
