package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flashdeck-backend/internal/models"
)

const (
	statePrefix  = "flashcardAppState:"
	apiKeyPrefix = "geminiApiKey:"
)

// StateRepo persists one ApplicationState blob and one credential record per
// session. Records expire with the session TTL and are refreshed on write.
type StateRepo struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStateRepo(redisClient *redis.Client, ttl time.Duration) *StateRepo {
	return &StateRepo{redis: redisClient, ttl: ttl}
}

func (r *StateRepo) Save(ctx context.Context, sessionID string, state *models.ApplicationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	return r.redis.Set(ctx, statePrefix+sessionID, string(data), r.ttl).Err()
}

// Load returns the persisted state, or nil when none exists. A corrupt
// record is discarded wholesale and nil is returned: the caller falls back
// to empty defaults, never to partially trusted data.
func (r *StateRepo) Load(ctx context.Context, sessionID string) (*models.ApplicationState, error) {
	data, err := r.redis.Get(ctx, statePrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state models.ApplicationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		r.redis.Del(ctx, statePrefix+sessionID)
		return nil, nil
	}
	state.Normalize()
	return &state, nil
}

func (r *StateRepo) Clear(ctx context.Context, sessionID string) error {
	return r.redis.Del(ctx, statePrefix+sessionID).Err()
}

func (r *StateRepo) SaveAPIKey(ctx context.Context, sessionID, key string) error {
	return r.redis.Set(ctx, apiKeyPrefix+sessionID, key, r.ttl).Err()
}

// LoadAPIKey returns the stored credential, or "" when none is set.
func (r *StateRepo) LoadAPIKey(ctx context.Context, sessionID string) (string, error) {
	key, err := r.redis.Get(ctx, apiKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return key, nil
}
