package cache

import (
	"errors"
	"testing"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewCache("", false)
	if err != nil {
		t.Fatalf("NewCache returned error: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected cache to be disabled")
	}

	if err := c.CacheBlock(1, map[string]string{"name": "hero"}); err != nil {
		t.Fatalf("CacheBlock returned error: %v", err)
	}

	var dest map[string]string
	if err := c.GetCachedBlock(1, &dest); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
	if err := c.InvalidateUserBlocks(1); err != nil {
		t.Fatalf("InvalidateUserBlocks returned error: %v", err)
	}
	if err := c.InvalidateAllBlocks(); err != nil {
		t.Fatalf("InvalidateAllBlocks returned error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatalf("expected nil cache to report disabled")
	}
	if err := c.Set("k", 1, 0); err != nil {
		t.Fatalf("Set on nil cache returned error: %v", err)
	}
}

func TestKeys(t *testing.T) {
	if got := BlockKey(42); got != "block:42" {
		t.Fatalf("BlockKey = %q", got)
	}
	if got := UserBlocksKey(7); got != "blocks:user:7" {
		t.Fatalf("UserBlocksKey = %q", got)
	}
}

func TestNewCacheRejectsInvalidURL(t *testing.T) {
	if _, err := NewCache("redis://:bad@host:notaport/x", true); err == nil {
		t.Fatalf("expected error for malformed Redis URL")
	}
}
