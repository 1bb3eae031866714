// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewLRUCache(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1, -100} {
		if _, err := NewLRUCache(size, false); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewLRUCache(%d, false) err = %v, want ErrInvalidSize", size, err)
		}
	}

	cache, err := NewLRUCache(1, true)
	if err != nil {
		t.Fatalf("NewLRUCache(1, true) failed: %v", err)
	}

	if cache == nil {
		t.Fatal("NewLRUCache(1, true) returned nil cache")
	}
}

func TestAddGet(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(4, false)
	if err != nil {
		t.Fatal(err)
	}

	if evicted := cache.Add("alpha", []byte("one")); evicted {
		t.Error("Add below capacity reported an eviction")
	}

	got, ok := cache.Get("alpha")
	if !ok {
		t.Fatal("Get(alpha) = not found, want found")
	}

	if !bytes.Equal(got, []byte("one")) {
		t.Errorf("Get(alpha) = %q, want %q", got, "one")
	}

	if _, ok := cache.Get("missing"); ok {
		t.Error("Get(missing) = found, want not found")
	}

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestEviction(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	if err != nil {
		t.Fatal(err)
	}

	cache.Add("a", []byte("1"))
	cache.Add("b", []byte("2"))

	if evicted := cache.Add("c", []byte("3")); !evicted {
		t.Error("Add over capacity did not report an eviction")
	}

	if _, ok := cache.Get("a"); ok {
		t.Error("oldest entry survived eviction")
	}

	for _, key := range []string{"b", "c"} {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("entry %q missing after eviction of another key", key)
		}
	}

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	if err != nil {
		t.Fatal(err)
	}

	cache.Add("a", []byte("1"))
	cache.Add("b", []byte("2"))

	// Touching a makes b the oldest entry.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("Get(a) = not found, want found")
	}

	cache.Add("c", []byte("3"))

	if _, ok := cache.Get("b"); ok {
		t.Error("entry b survived, want it evicted as least recently used")
	}

	if _, ok := cache.Get("a"); !ok {
		t.Error("recently read entry a was evicted")
	}
}

func TestAddExistingKey(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	if err != nil {
		t.Fatal(err)
	}

	cache.Add("a", []byte("old"))
	cache.Add("b", []byte("2"))

	if evicted := cache.Add("a", []byte("new")); evicted {
		t.Error("updating an existing key reported an eviction")
	}

	if cache.Len() != 2 {
		t.Errorf("Len() = %d after update, want 2", cache.Len())
	}

	got, ok := cache.Get("a")
	if !ok || !bytes.Equal(got, []byte("new")) {
		t.Errorf("Get(a) = %q, %v, want %q, true", got, ok, "new")
	}

	// The update refreshed a, so b goes first.
	cache.Add("c", []byte("3"))

	if _, ok := cache.Get("b"); ok {
		t.Error("entry b survived, want it evicted after a was updated")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	if err != nil {
		t.Fatal(err)
	}

	cache.Add("a", []byte("1"))

	if !cache.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}

	if _, ok := cache.Get("a"); ok {
		t.Error("removed entry still present")
	}

	if cache.Remove("a") {
		t.Error("Remove(a) on absent key = true, want false")
	}

	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestStoredBytesAreIsolated(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte("payload")
	cache.Add("a", payload)

	// Mutating the slice after Add must not reach the cache.
	payload[0] = 'X'

	got, ok := cache.Get("a")
	if !ok || !bytes.Equal(got, []byte("payload")) {
		t.Errorf("Get(a) = %q, %v, want %q, true", got, ok, "payload")
	}

	// Mutating the returned slice must not corrupt later reads.
	got[0] = 'Y'

	again, ok := cache.Get("a")
	if !ok || !bytes.Equal(again, []byte("payload")) {
		t.Errorf("second Get(a) = %q, %v, want %q, true", again, ok, "payload")
	}
}

func TestEmptyValue(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, true)
	if err != nil {
		t.Fatal(err)
	}

	cache.Add("nil", nil)
	cache.Add("empty", []byte{})

	for _, key := range []string{"nil", "empty"} {
		got, ok := cache.Get(key)
		if !ok {
			t.Errorf("Get(%s) = not found, want found", key)
		}

		if len(got) != 0 {
			t.Errorf("Get(%s) = %q, want empty", key, got)
		}
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(4, true)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value []byte
	}{
		{"compressible", bytes.Repeat([]byte("driftnote release notes "), 64)},
		{"short", []byte("tiny")},
		{"binary", []byte{0x00, 0xff, 0x13, 0x37, 0x00, 0xff}},
	}

	for _, tt := range tests {
		cache.Add(tt.name, tt.value)

		got, ok := cache.Get(tt.name)
		if !ok {
			t.Errorf("%s: Get = not found, want found", tt.name)

			continue
		}

		if !bytes.Equal(got, tt.value) {
			t.Errorf("%s: payload changed across the cache", tt.name)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	const capacity = 32

	cache, err := NewLRUCache(capacity, true)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := fmt.Sprintf("key-%d", (worker*31+i)%64)

				switch i % 3 {
				case 0:
					cache.Add(key, bytes.Repeat([]byte{byte(i)}, 128))
				case 1:
					cache.Get(key)
				default:
					cache.Remove(key)
				}
			}
		}()
	}

	wg.Wait()

	if got := cache.Len(); got > capacity {
		t.Errorf("Len() = %d, want at most %d", got, capacity)
	}
}
