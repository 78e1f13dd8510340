package utils

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestIsCacheMiss(t *testing.T) {
	if !IsCacheMiss(redis.Nil) {
		t.Fatalf("redis.Nil should be a cache miss")
	}
	if IsCacheMiss(errors.New("connection refused")) {
		t.Fatalf("arbitrary error treated as cache miss")
	}

	// Without a client the error is a real failure, not a miss; callers
	// fall through to the database and skip the write-back.
	if _, err := CacheGet("some_key"); err == nil || IsCacheMiss(err) {
		t.Fatalf("uninitialized client: want non-miss error, got %v", err)
	}
}
