// Package lrustore is a bounded in-process cache with per-entry expiry.
package lrustore

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	val     []byte
	expires time.Time // zero means no expiry
}

type Store struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

func New(size int) *Store {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, entry](size)
	return &Store{lru: c, now: time.Now}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: val}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.lru.Add(key, e)
	return nil
}

func (s *Store) Len() int { return s.lru.Len() }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error {
	s.lru.Purge()
	return nil
}
