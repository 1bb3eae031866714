// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a fixed-capacity LRU cache for byte payloads,
safe for concurrent use.

Values are opaque []byte blobs, which fits the cache's one job here:
holding serialized upstream API responses. With compression enabled,
entries are zstd-compressed when that actually shrinks them and are
decompressed transparently on the way out.
*/
package lrucache

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// LRUCache maps string keys to byte payloads, evicting the least
// recently used entry once the capacity is reached. The zero value is
// not usable; construct with [NewLRUCache].
type LRUCache struct {
	mu    sync.Mutex
	size  int
	items map[string]*entry

	// head is the most recently used entry, tail the oldest.
	head *entry
	tail *entry

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// entry is a node of the intrusive recency list.
type entry struct {
	key        string
	data       []byte
	compressed bool
	prev, next *entry
}

// NewLRUCache creates a cache holding at most size entries.
//
// With compress set, stored values are zstd-compressed whenever the
// compressed form is smaller than the original.
func NewLRUCache(size int, compress bool) (*LRUCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		size:  size,
		items: make(map[string]*entry, size),
	}

	if compress {
		// Nil writer/reader: the encoder and decoder are only used for
		// stateless EncodeAll/DecodeAll calls.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.enc = enc
		c.dec = dec
	}

	return c, nil
}

// Add stores value under key and makes it the most recently used entry.
// The payload is copied (or compressed) before storage, so callers may
// reuse the slice. Add reports whether an older entry was evicted to
// make room.
func (c *LRUCache) Add(key string, value []byte) bool {
	// Compression is the expensive part; do it before taking the lock.
	// EncodeAll is safe for concurrent use.
	data, compressed := c.pack(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.data = data
		e.compressed = compressed
		c.moveToFront(e)

		return false
	}

	e := &entry{key: key, data: data, compressed: compressed}
	c.items[key] = e
	c.pushFront(e)

	if len(c.items) <= c.size {
		return false
	}

	c.evictOldest()

	return true
}

// Get returns a copy of the value stored under key and marks the entry
// as most recently used.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()

	e, ok := c.items[key]
	if !ok {
		c.mu.Unlock()

		return nil, false
	}

	c.moveToFront(e)

	data, compressed := e.data, e.compressed

	c.mu.Unlock()

	return c.unpack(data, compressed)
}

// Remove deletes the entry stored under key, reporting whether it was
// present.
func (c *LRUCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}

	c.unlink(e)
	delete(c.items, key)

	return true
}

// Len returns the current number of entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *LRUCache) pushFront(e *entry) {
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}

	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRUCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev, e.next = nil, nil
}

func (c *LRUCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}

	c.unlink(e)
	c.pushFront(e)
}

func (c *LRUCache) evictOldest() {
	oldest := c.tail
	if oldest == nil {
		return
	}

	c.unlink(oldest)
	delete(c.items, oldest.key)
}

// pack prepares a payload for storage. Compression only sticks when it
// shrinks the payload; either way the stored slice is private to the
// cache.
func (c *LRUCache) pack(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return nil, false
	}

	if c.enc != nil {
		if packed := c.enc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	out := make([]byte, len(value))
	copy(out, value)

	return out, false
}

// unpack returns a caller-owned copy of a stored payload. A payload
// that fails to decompress is reported as absent.
func (c *LRUCache) unpack(data []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		if data == nil {
			return nil, true
		}

		out := make([]byte, len(data))
		copy(out, data)

		return out, true
	}

	if c.dec == nil {
		return nil, false
	}

	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false
	}

	return out, true
}
