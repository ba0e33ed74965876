package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore holds live verification codes and spent token IDs. Entries carry
// a TTL so an expired code is indistinguishable from one that never existed.
type CodeStore interface {
	// IssueCode stores a code, replacing any prior live code for the same
	// email and purpose.
	IssueCode(ctx context.Context, purpose Purpose, email, code string, ttl time.Duration) error

	// ConsumeCode atomically removes and returns the live code.
	// Returns ErrCodeExpired when none exists.
	ConsumeCode(ctx context.Context, purpose Purpose, email string) (string, error)

	// DeleteCode removes a live code without returning it.
	DeleteCode(ctx context.Context, purpose Purpose, email string) error

	// MarkTokenUsed records a token ID as spent. Returns false if it was
	// already spent.
	MarkTokenUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error)

	// UnmarkToken releases a spent marker so the token can be retried.
	UnmarkToken(ctx context.Context, jti string) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) CodeStore {
	return &redisStore{client: client}
}

func codeKey(purpose Purpose, email string) string {
	return fmt.Sprintf("otp:code:%s:%s", purpose, strings.ToLower(strings.TrimSpace(email)))
}

func usedTokenKey(jti string) string {
	return "otp:used:" + jti
}

func (s *redisStore) IssueCode(ctx context.Context, purpose Purpose, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKey(purpose, email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (s *redisStore) ConsumeCode(ctx context.Context, purpose Purpose, email string) (string, error) {
	code, err := s.client.GetDel(ctx, codeKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeExpired
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume verification code: %w", err)
	}
	return code, nil
}

func (s *redisStore) DeleteCode(ctx context.Context, purpose Purpose, email string) error {
	if err := s.client.Del(ctx, codeKey(purpose, email)).Err(); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

func (s *redisStore) MarkTokenUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, usedTokenKey(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark token used: %w", err)
	}
	return ok, nil
}

func (s *redisStore) UnmarkToken(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, usedTokenKey(jti)).Err(); err != nil {
		return fmt.Errorf("failed to unmark token: %w", err)
	}
	return nil
}
