package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

const sessionKeyPrefix = "session:"

// SessionService keeps login sessions in Redis. The opaque session token is
// the Redis key suffix; expiry is enforced through key TTL, so sessions
// disappear on their own when not refreshed.
type SessionService struct {
	rdb      *redis.Client
	validity time.Duration
	now      func() time.Time
}

func NewSessionService(rdb *redis.Client, validity time.Duration) *SessionService {
	return &SessionService{rdb: rdb, validity: validity, now: time.Now}
}

// Create opens a session for userID and returns it with a fresh token.
func (s *SessionService) Create(ctx context.Context, userID int64) (*models.Session, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	now := s.now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.validity),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, payload, s.validity).Err(); err != nil {
		return nil, fmt.Errorf("error storing session: %v", err)
	}

	return session, nil
}

// Get resolves a session token. Unknown or expired tokens yield
// common.ErrorUnauthorized.
func (s *SessionService) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error reading session: %v", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, common.ErrorInternal
	}

	return session, nil
}

// Refresh extends the session lifetime by the configured validity and
// rewrites its expiry timestamp.
func (s *SessionService) Refresh(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	session.ExpiresAt = s.now().UTC().Add(s.validity)

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, payload, s.validity).Err(); err != nil {
		return nil, fmt.Errorf("error refreshing session: %v", err)
	}

	return session, nil
}

// Destroy removes a session. Destroying an unknown token is not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("error deleting session: %v", err)
	}
	return nil
}
