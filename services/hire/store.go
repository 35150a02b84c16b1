package hire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskly/utils"

	"github.com/go-redis/redis/v8"
)

// SessionStore persists in-progress wizard sessions.
type SessionStore interface {
	Save(ctx context.Context, session *WizardSession) error
	Get(ctx context.Context, sessionID string) (*WizardSession, error)
	Delete(ctx context.Context, sessionID string) error

	// AcquireSubmitLatch atomically claims the right to submit a session.
	// It returns false when a submission is already in flight.
	AcquireSubmitLatch(ctx context.Context, sessionID string) (bool, error)
	ReleaseSubmitLatch(ctx context.Context, sessionID string) error
}

// submitLatchTTL bounds how long a crashed submission can block retries.
const submitLatchTTL = 2 * time.Minute

// RedisSessionStore keeps sessions in redis with a TTL, JSON-marshaled the
// same way booking sessions are cached.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSessionStore returns a SessionStore on the given client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: utils.HireSessionTTL}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal hire session: %w", err)
	}
	if err := s.Client.Set(ctx, utils.HireSessionPrefix+session.SessionID, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store hire session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*WizardSession, error) {
	data, err := s.Client.Get(ctx, utils.HireSessionPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load hire session: %w", err)
	}

	var session WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse hire session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, utils.HireSessionPrefix+sessionID).Err()
}

func (s *RedisSessionStore) AcquireSubmitLatch(ctx context.Context, sessionID string) (bool, error) {
	return s.Client.SetNX(ctx, utils.HireSubmitPrefix+sessionID, "1", submitLatchTTL).Result()
}

func (s *RedisSessionStore) ReleaseSubmitLatch(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, utils.HireSubmitPrefix+sessionID).Err()
}
