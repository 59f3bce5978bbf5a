package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// updateAttempts bounds the read-modify-write retry loop. Conflicts
// are rare (two admins acting at once); persistent conflict surfaces
// as ErrVersionConflict to the caller.
const updateAttempts = 5

// ReadList decodes a slot into a typed list. A missing slot yields an
// empty list; so does a corrupt payload, which is logged and otherwise
// swallowed. A damaged slot must never take the whole view down.
func ReadList[T any](ctx context.Context, s Store, log *zap.Logger, key string) ([]T, uint64, error) {
	raw, version, err := s.Read(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return nil, version, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Warn("corrupt slot payload, treating as empty",
			zap.String("key", key), zap.Error(err))
		return nil, version, nil
	}
	return list, version, nil
}

// WriteList replaces a slot with a typed list under the version read
// alongside it.
func WriteList[T any](ctx context.Context, s Store, key string, list []T, version uint64) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Write(ctx, key, raw, version); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// UpdateList runs fn over the slot's current list and writes the
// result back, retrying the whole cycle when a concurrent writer wins
// the version race. fn must be safe to re-run against fresh state.
func UpdateList[T any](ctx context.Context, s Store, log *zap.Logger, key string, fn func([]T) ([]T, error)) ([]T, error) {
	var lastErr error
	for attempt := 0; attempt < updateAttempts; attempt++ {
		list, version, err := ReadList[T](ctx, s, log, key)
		if err != nil {
			return nil, err
		}
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		if next == nil {
			// fn declined to change anything
			return list, nil
		}
		if err := WriteList(ctx, s, key, next, version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return next, nil
	}
	return nil, lastErr
}

// ReadRecord decodes a single-record slot (the cached session user).
// Missing, null, or corrupt payloads yield nil.
func ReadRecord[T any](ctx context.Context, s Store, log *zap.Logger, key string) (*T, uint64, error) {
	raw, version, err := s.Read(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, version, nil
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Warn("corrupt slot payload, treating as empty",
			zap.String("key", key), zap.Error(err))
		return nil, version, nil
	}
	return &rec, version, nil
}

// WriteRecord replaces a single-record slot. A nil record clears it.
func WriteRecord[T any](ctx context.Context, s Store, key string, rec *T, version uint64) error {
	var raw json.RawMessage
	if rec == nil {
		raw = json.RawMessage("null")
	} else {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		raw = b
	}
	if err := s.Write(ctx, key, raw, version); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
