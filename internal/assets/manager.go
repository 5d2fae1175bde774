package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"recetas-api/internal/background"
)

const saveAttempts = 3

// Manager binds stored files to records. A file is written before its
// record exists, so every failure after the write schedules a delete, and
// a replaced file is only deleted once the record no longer points at it.
type Manager struct {
	store    Store
	runner   *background.Runner
	log      *slog.Logger
	prefix   string
	maxBytes int64

	now  func() time.Time
	last atomic.Int64
}

// NewManager returns a manager that keeps its files under prefix in store.
func NewManager(store Store, runner *background.Runner, log *slog.Logger, prefix string, maxBytes int64) *Manager {
	return &Manager{
		store:    store,
		runner:   runner,
		log:      log.With(slog.String("component", "assets"), slog.String("prefix", prefix)),
		prefix:   prefix,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Key is the store key of filename.
func (m *Manager) Key(filename string) string {
	if m.prefix == "" {
		return filename
	}
	return path.Join(m.prefix, filename)
}

// Prefix is the key prefix the manager writes under.
func (m *Manager) Prefix() string { return m.prefix }

// nextStamp returns a millisecond timestamp strictly greater than any
// previously returned one.
func (m *Manager) nextStamp() int64 {
	for {
		now := m.now().UnixMilli()
		last := m.last.Load()
		if now <= last {
			now = last + 1
		}
		if m.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Save validates and writes up, returning the generated filename.
func (m *Manager) Save(ctx context.Context, up Upload) (string, error) {
	const op = "assets.Manager.Save"

	if err := up.Validate(m.maxBytes); err != nil {
		return "", err
	}
	f, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	for i := 0; i < saveAttempts; i++ {
		name := fmt.Sprintf("%d%s", m.nextStamp(), up.Ext())
		if i > 0 {
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return "", fmt.Errorf("%s: %w", op, err)
			}
		}
		err := m.store.Save(ctx, m.Key(name), f, up.Size, up.ContentType)
		if errors.Is(err, ErrExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("%s: %w", op, ErrExists)
}

// BindOnCreate stores up and then runs create with the new filename.
// If create fails the file is removed in the background and create's
// error is returned as is.
func (m *Manager) BindOnCreate(ctx context.Context, up Upload, create func(ctx context.Context, filename string) error) (string, error) {
	name, err := m.Save(ctx, up)
	if err != nil {
		return "", err
	}
	if err := create(ctx, name); err != nil {
		m.Release(name)
		return "", err
	}
	return name, nil
}

// Rebind stores up and runs swap, which must durably point the record at
// the new filename and return the one it replaced. The old file is
// removed only after swap succeeds; on failure the new file is removed.
func (m *Manager) Rebind(ctx context.Context, up Upload, swap func(ctx context.Context, filename string) (string, error)) (string, error) {
	name, err := m.Save(ctx, up)
	if err != nil {
		return "", err
	}
	old, err := swap(ctx, name)
	if err != nil {
		m.Release(name)
		return "", err
	}
	if old != "" && old != name {
		m.Release(old)
	}
	return name, nil
}

// Release schedules removal of filename. Failures are logged only.
func (m *Manager) Release(filename string) {
	if filename == "" {
		return
	}
	key := m.Key(filename)
	m.runner.Go("delete asset "+key, func(ctx context.Context) error {
		if err := m.store.Delete(ctx, key); err != nil {
			return err
		}
		m.log.Debug("asset removed", slog.String("key", key))
		return nil
	})
}
