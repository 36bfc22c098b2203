package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// State names mirror the edit dialog steps. The zero value means no edit is
// in progress.
type State string

const (
	StateIdle           State = ""
	StateSelectCategory State = "select_category"
	StateSelectItem     State = "select_item"
	StateEnterNewPrice  State = "enter_new_price"
	StateEnterNewName   State = "enter_new_name"
)

// Session carries one operator's in-flight selection. Operators never share
// a session; each is stored under its own key.
type Session struct {
	State      State `json:"state"`
	CategoryID uint  `json:"category_id,omitempty"`
	ItemID     uint  `json:"item_id,omitempty"`
}

// Sessions stores per-operator edit sessions. Get returns the zero Session
// when none exists.
type Sessions interface {
	Get(ctx context.Context, operatorID int64) (Session, error)
	Put(ctx context.Context, operatorID int64, session Session) error
	Delete(ctx context.Context, operatorID int64) error
}

const sessionTTL = 15 * time.Minute

// RedisSessions keeps sessions in Redis with a TTL, so an abandoned edit
// expires on its own instead of trapping the operator mid-dialog forever.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: sessionTTL}
}

func sessionKey(operatorID int64) string {
	return fmt.Sprintf("admin:session:%d", operatorID)
}

func (s *RedisSessions) Get(ctx context.Context, operatorID int64) (Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(operatorID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get admin session %d: %w", operatorID, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, fmt.Errorf("decode admin session %d: %w", operatorID, err)
	}
	return session, nil
}

func (s *RedisSessions) Put(ctx context.Context, operatorID int64, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode admin session %d: %w", operatorID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(operatorID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store admin session %d: %w", operatorID, err)
	}
	return nil
}

func (s *RedisSessions) Delete(ctx context.Context, operatorID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(operatorID)).Err(); err != nil {
		return fmt.Errorf("delete admin session %d: %w", operatorID, err)
	}
	return nil
}
