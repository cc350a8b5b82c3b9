// Package nav describes the navigation menu of the dashboard as a tree of
// entries, each optionally restricted to a set of roles, and filters that
// tree down to what a given user may see.
package nav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoTitle indicates a menu entry without a title.
	ErrNoTitle = errors.New("nav: entry has no title")

	// ErrBadTarget indicates a menu entry whose "to" is neither a path nor a
	// named route.
	ErrBadTarget = errors.New("nav: entry target is malformed")
)

// Target is where a menu entry leads: either a named route or a plain path.
type Target struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// UnmarshalJSON accepts either "/some/path" or {"name": "route-name"}.
func (t *Target) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &t.Path)
	}

	type plain Target
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return ErrBadTarget
	}
	if p.Name == "" && p.Path == "" {
		return ErrBadTarget
	}
	*t = Target(p)
	return nil
}

// MarshalJSON writes a path-only target as a plain string.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.Name == "" {
		return json.Marshal(t.Path)
	}
	type plain Target
	return json.Marshal(plain(t))
}

// Icon is a display hint for the renderer.
type Icon struct {
	Icon string `json:"icon"`
}

// Node is one entry of the navigation menu.
//
// A Node with no Roles is visible to everyone, unless inheritance is enabled
// when filtering (see SetInherit).
type Node struct {
	Title    string   `json:"title"`
	To       *Target  `json:"to,omitempty"`
	Icon     *Icon    `json:"icon,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Tree is the ordered list of top level menu entries.
type Tree []*Node

// Load parses a Tree from JSON.
func Load(r io.Reader) (Tree, error) {
	var tree Tree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("nav: unable to decode tree: %w", err)
	}

	if err := check(tree, ""); err != nil {
		return nil, err
	}

	return tree, nil
}

func check(nodes []*Node, parent string) error {
	for i, n := range nodes {
		if n == nil || n.Title == "" {
			return fmt.Errorf("%w (%s[%d])", ErrNoTitle, parent, i)
		}
		if err := check(n.Children, parent+"/"+n.Title); err != nil {
			return err
		}
	}
	return nil
}
