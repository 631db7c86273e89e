// Package catalog keeps the extension anchors a plan declares.
//
// Every plan introduces its extension resources (URIs, functions, types and
// type variations) under small plan-local integers called anchors, and later
// refers to them by anchor only. An AnchorCatalog holds one namespace of
// anchors for the duration of one validation pass. It is append-only: an
// anchor is bound once and never rebound, and nothing is rolled back when a
// later part of the plan fails.
//
// Entries are kept ordered by anchor so listings are deterministic.
package catalog

import (
	"fmt"
	"strings"

	"github.com/tidwall/btree"
	"mit.edu/dsg/planval/common"
)

// AnchorCatalog maps anchors of one kind to the values registered under them.
// The zero value is not usable; call NewAnchorCatalog.
type AnchorCatalog[V any] struct {
	kind    common.AnchorKind
	entries btree.Map[common.Anchor, V]
}

// NewAnchorCatalog returns an empty catalog for anchors of the given kind.
func NewAnchorCatalog[V any](kind common.AnchorKind) *AnchorCatalog[V] {
	return &AnchorCatalog[V]{kind: kind}
}

func (c *AnchorCatalog[V]) Kind() common.AnchorKind {
	return c.kind
}

// Add binds v to anchor. If the anchor is already bound, the catalog is left
// unchanged and the existing value is returned together with a
// DuplicateAnchorError.
func (c *AnchorCatalog[V]) Add(anchor common.Anchor, v V) (V, error) {
	if existing, ok := c.entries.Get(anchor); ok {
		return existing, &DuplicateAnchorError{
			Kind:    c.kind,
			Anchor:  anchor,
			Added:   fmt.Sprint(v),
			Defined: fmt.Sprint(existing),
		}
	}
	c.entries.Set(anchor, v)
	var zero V
	return zero, nil
}

// Get returns the value bound to anchor.
func (c *AnchorCatalog[V]) Get(anchor common.Anchor) (V, bool) {
	return c.entries.Get(anchor)
}

// Contains reports whether anchor is bound.
func (c *AnchorCatalog[V]) Contains(anchor common.Anchor) bool {
	_, ok := c.entries.Get(anchor)
	return ok
}

func (c *AnchorCatalog[V]) Len() int {
	return c.entries.Len()
}

// Scan calls fn for every binding in ascending anchor order until fn
// returns false.
func (c *AnchorCatalog[V]) Scan(fn func(anchor common.Anchor, v V) bool) {
	c.entries.Scan(fn)
}

// Anchors returns the bound anchors in ascending order.
func (c *AnchorCatalog[V]) Anchors() []common.Anchor {
	return c.entries.Keys()
}

// Values returns the bound values in ascending anchor order.
func (c *AnchorCatalog[V]) Values() []V {
	return c.entries.Values()
}

// Clear removes every binding.
func (c *AnchorCatalog[V]) Clear() {
	c.entries.Clear()
}

func (c *AnchorCatalog[V]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s anchors:", c.kind)
	c.entries.Scan(func(anchor common.Anchor, v V) bool {
		fmt.Fprintf(&sb, " %s=%v", anchor, v)
		return true
	})
	return sb.String()
}

// DuplicateAnchorError is returned by Add when an anchor is already bound.
// Added and Defined render the rejected and the existing value.
type DuplicateAnchorError struct {
	Kind    common.AnchorKind
	Anchor  common.Anchor
	Added   string
	Defined string
}

func (e *DuplicateAnchorError) Error() string {
	return fmt.Sprintf("%s anchor %s: cannot add %s, already defined as %s", e.Kind, e.Anchor, e.Added, e.Defined)
}

func (e *DuplicateAnchorError) ErrorCode() common.ErrorCode { return common.DuplicateAnchor }
