// Package profile keeps the operator's display name. The value is stored as
// plain text under storage.KeyUsername, not JSON.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"Inventar/internal/storage"
)

const maxUsernameLen = 64

var ErrInvalidUsername = errors.New("invalid username")

type Store struct {
	kv  storage.KV
	log *zap.Logger
}

func NewStore(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Username returns "" when none is set or the read fails.
func (s *Store) Username(ctx context.Context) string {
	raw, ok, err := s.kv.Get(ctx, storage.KeyUsername)
	if err != nil {
		s.log.Warn("read username failed", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return string(raw)
}

func (s *Store) SetUsername(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if utf8.RuneCountInString(name) > maxUsernameLen {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, maxUsernameLen)
	}

	if err := s.kv.Put(ctx, storage.KeyUsername, []byte(name)); err != nil {
		return "", fmt.Errorf("write username: %w", err)
	}
	return name, nil
}
