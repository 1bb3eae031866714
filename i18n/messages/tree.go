// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package messages defines the nested message tree that backs the site's
locales, together with loading and fallback resolution.

A Tree maps string keys to either a leaf string or another Tree. One tree
per locale; the tree for the base locale is the reference every other
locale is resolved and validated against.
*/
package messages

import (
	"iter"
	"sort"
	"strings"
)

// Tree is one locale's full set of user-facing strings.
//
// Values are either leaf strings or nested trees. Anything else survives
// loading untouched and is treated as unresolvable by Resolve and as a
// deficiency by the validator.
type Tree map[string]any

// AsTree reports whether v is a nested tree, converting the map shapes
// produced by the YAML, TOML and JSON decoders.
func AsTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return Tree(m), true
	case map[any]any:
		// Some YAML decoders produce interface-keyed maps.
		out := make(Tree, len(m))

		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}

			out[ks] = val
		}

		return out, true
	default:
		return nil, false
	}
}

// Normalize rewrites raw into a Tree whose nested mappings are all of type
// Tree, so later code only has to deal with one map shape.
//
// Leaf values that are neither strings nor mappings are kept as-is.
func Normalize(raw map[string]any) Tree {
	out := make(Tree, len(raw))

	for k, v := range raw {
		if sub, ok := AsTree(v); ok {
			out[k] = Normalize(sub)

			continue
		}

		out[k] = v
	}

	return out
}

// Keys returns the tree's immediate keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Lookup walks the dotted key down the tree and returns the leaf string it
// lands on. The second result is false when any segment is missing, when an
// intermediate value is not a nested tree, or when the terminal value is not
// a string.
func (t Tree) Lookup(key string) (string, bool) {
	v, ok := t.descend(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// descend walks the dotted key and returns the raw terminal value.
func (t Tree) descend(key string) (any, bool) {
	current := t

	segments := strings.Split(key, ".")
	for i, segment := range segments {
		v, ok := current[segment]
		if !ok {
			return nil, false
		}

		if i == len(segments)-1 {
			return v, true
		}

		current, ok = AsTree(v)
		if !ok {
			return nil, false
		}
	}

	return nil, false
}

// Leaves iterates over every leaf string in the tree as (dotted path, value)
// pairs, in sorted path order.
func (t Tree) Leaves() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		t.walkLeaves("", yield)
	}
}

func (t Tree) walkLeaves(prefix string, yield func(string, string) bool) bool {
	for _, k := range t.Keys() {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		if sub, ok := AsTree(t[k]); ok {
			if !sub.walkLeaves(path, yield) {
				return false
			}

			continue
		}

		if s, ok := t[k].(string); ok {
			if !yield(path, s) {
				return false
			}
		}
	}

	return true
}
