package nav

import (
	"iter"
	"slices"

	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/hashicorp/go-set/v3"
)

// Options control how a Tree is filtered.
type Options struct {
	inherit bool
	prune   bool
}

type OptionFunc func(*Options)

// SetInherit makes an entry without roles take the roles of its nearest
// ancestor that has some. Off by default, in which case an entry without roles
// is visible to everyone.
func SetInherit(inherit bool) OptionFunc {
	return func(o *Options) { o.inherit = inherit }
}

// SetPrune controls whether a branch that lost all of its children to the
// filter, and has no target of its own, is dropped. On by default.
func SetPrune(prune bool) OptionFunc {
	return func(o *Options) { o.prune = prune }
}

// Filter returns the entries of tree visible to a user holding roles.
//
// An entry is visible if its roles are empty or intersect roles. An entry
// that is not visible itself but has a visible descendant is kept as a plain
// container: its target is removed so it cannot be followed.
//
// The sequence is lazy, re-evaluating tree each time it is iterated, and
// yields deep copies, so a renderer may modify what it receives without
// touching tree.
func Filter(tree Tree, roles *set.Set[string], opts ...OptionFunc) iter.Seq[*Node] {
	options := &Options{
		prune: true,
	}

	for _, opt := range opts {
		opt(options)
	}

	if roles == nil {
		roles = set.New[string](0)
	}

	f := &filter{roles: roles, options: options}

	return func(yield func(*Node) bool) {
		for _, n := range tree {
			visible, ok := f.visit(n, nil)
			if !ok {
				continue
			}
			if !yield(visible) {
				return
			}
		}
	}
}

type filter struct {
	roles   *set.Set[string]
	options *Options
}

func (f *filter) visit(n *Node, inherited []string) (*Node, bool) {
	effective := n.Roles
	if len(effective) == 0 && f.options.inherit {
		effective = inherited
	}

	self := len(effective) == 0 || identity.Intersects(f.roles, effective)

	var children []*Node
	for _, child := range n.Children {
		if c, ok := f.visit(child, effective); ok {
			children = append(children, c)
		}
	}

	switch {
	case len(children) > 0:
		// shown, at least as a container
	case !self:
		return nil, false
	case len(n.Children) > 0 && n.To == nil && f.options.prune:
		return nil, false
	}

	clone := &Node{
		Title:    n.Title,
		Roles:    slices.Clone(n.Roles),
		Children: children,
	}
	if n.To != nil && self {
		to := *n.To
		clone.To = &to
	}
	if n.Icon != nil {
		icon := *n.Icon
		clone.Icon = &icon
	}
	return clone, true
}

// Walk flattens seq depth first, yielding each entry with its depth (top level
// entries are at depth 0).
func Walk(seq iter.Seq[*Node]) iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		var descend func(n *Node, depth int) bool
		descend = func(n *Node, depth int) bool {
			if !yield(depth, n) {
				return false
			}
			for _, child := range n.Children {
				if !descend(child, depth+1) {
					return false
				}
			}
			return true
		}

		for n := range seq {
			if !descend(n, 0) {
				return
			}
		}
	}
}
