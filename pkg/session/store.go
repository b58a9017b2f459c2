package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
)

const sessionKeyPrefix = "session:"

// ErrNotFound is returned when a session token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store keeps login sessions in valkey, keyed by an opaque token with a
// sliding expiry equal to the configured TTL.
type Store struct {
	client valkey.Client
	ttl    time.Duration
}

func NewStore(cfg environments.SessionConfig) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to session store: %w", err)
	}

	logger.Infof("Connected to session store (via valkey client)")

	return &Store{client: client, ttl: cfg.TTL}, nil
}

// Create opens a new session for the user and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token
	ttlSeconds := int64(s.ttl.Seconds())

	err := s.client.Do(ctx, s.client.B().Set().
		Key(key).
		Value(strconv.FormatInt(userID, 10)).
		ExSeconds(ttlSeconds).
		Build()).Error()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// GetUserID resolves a token to the logged-in user id and refreshes the
// session expiry.
func (s *Store) GetUserID(ctx context.Context, token string) (int64, error) {
	key := sessionKeyPrefix + token

	raw, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", raw, err)
	}

	ttlSeconds := int64(s.ttl.Seconds())
	if err := s.client.Do(ctx, s.client.B().Expire().Key(key).Seconds(ttlSeconds).Build()).Error(); err != nil {
		logger.Warnf("Failed to refresh session expiry: %v", err)
	}

	return userID, nil
}

// Destroy removes a session. Destroying an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	key := sessionKeyPrefix + token
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
