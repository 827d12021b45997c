package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/remindme/internal/logger"
)

const defaultSQLPollInterval = 2 * time.Second

type sqlQueries struct {
	get      string
	upsert   string
	versions string
}

// sqlKV implements the value half of Provider over a kv(key, value, updated_at) table.
type sqlKV struct {
	db      *sql.DB
	queries sqlQueries
	subs    subscribers

	// last updated_at observed per key, used by Watch to spot foreign writes
	mu       sync.Mutex
	versions map[string]int64

	pollInterval time.Duration
}

func (s *sqlKV) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}

	var value []byte
	var updatedAt int64
	err := s.db.QueryRow(s.queries.get, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	s.observe(key, updatedAt)
	return value, nil
}

func (s *sqlKV) Set(key string, value []byte) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	updatedAt := time.Now().UnixNano()
	if _, err := s.db.Exec(s.queries.upsert, key, value, updatedAt); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.observe(key, updatedAt)
	s.subs.notify(key, value)
	return nil
}

func (s *sqlKV) Subscribe(key string, fn func([]byte)) func() {
	return s.subs.add(key, fn)
}

func (s *sqlKV) observe(key string, updatedAt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions == nil {
		s.versions = make(map[string]int64)
	}
	if updatedAt > s.versions[key] {
		s.versions[key] = updatedAt
	}
}

// Watch polls updated_at and notifies subscribers of keys written by other processes.
func (s *sqlKV) Watch(ctx context.Context) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	interval := s.pollInterval
	if interval <= 0 {
		interval = defaultSQLPollInterval
	}

	// Establish a baseline so existing rows are not reported as changes.
	if _, err := s.poll(ctx, false); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed, err := s.poll(ctx, true)
			if err != nil {
				logger.Warn("Storage poll failed", "error", err)
				continue
			}
			for _, key := range changed {
				value, err := s.Get(key)
				if err != nil {
					logger.Warn("Failed to read changed key", "key", key, "error", err)
					continue
				}
				logger.Debug("Storage key changed externally", "key", key)
				s.subs.notify(key, value)
			}
		}
	}
}

func (s *sqlKV) poll(ctx context.Context, report bool) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.versions)
	if err != nil {
		return nil, fmt.Errorf("failed to poll storage: %w", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions == nil {
		s.versions = make(map[string]int64)
	}

	var changed []string
	for rows.Next() {
		var key string
		var updatedAt int64
		if err := rows.Scan(&key, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to poll storage: %w", err)
		}
		if prev, ok := s.versions[key]; report && (!ok || updatedAt > prev) {
			changed = append(changed, key)
		}
		if updatedAt > s.versions[key] {
			s.versions[key] = updatedAt
		}
	}
	return changed, rows.Err()
}
