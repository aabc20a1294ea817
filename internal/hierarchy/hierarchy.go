// Package hierarchy derives ancestor chains, labels and parent links of
// department trees stored as an adjacency list with a materialized path.
package hierarchy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDepth is the deepest level a department may sit at; roots are level 1.
const MaxDepth = 5

// walkLimit bounds ancestor walks even when stored data violates MaxDepth.
const walkLimit = MaxDepth * 4

const (
	pathSeparator  = "/"
	labelSeparator = " / "
)

var (
	ErrCycle    = errors.New("department hierarchy contains a cycle")
	ErrTooDeep  = errors.New("department hierarchy is deeper than allowed")
	ErrNotFound = errors.New("department not found in hierarchy")
)

type Node struct {
	ID       uint
	ParentID *uint
	Title    string
}

// Lookup resolves a node by id; ok is false when the node does not exist.
type Lookup func(id uint) (node Node, ok bool)

// Ancestors returns the chain from the root down to the node with the given id,
// the node itself included.
func Ancestors(lookup Lookup, id uint) ([]Node, error) {
	node, ok := lookup(id)
	if !ok {
		return nil, ErrNotFound
	}

	chain := []Node{node}
	seen := map[uint]struct{}{node.ID: {}}
	for node.ParentID != nil {
		if len(chain) > walkLimit {
			return nil, ErrTooDeep
		}
		parentID := *node.ParentID
		if _, visited := seen[parentID]; visited {
			return nil, ErrCycle
		}
		parent, ok := lookup(parentID)
		if !ok {
			return nil, fmt.Errorf("parent %d of department %d: %w", parentID, node.ID, ErrNotFound)
		}
		seen[parentID] = struct{}{}
		chain = append(chain, parent)
		node = parent
	}

	reverse(chain)
	return chain, nil
}

// MapLookup adapts a slice of nodes to a Lookup.
func MapLookup(nodes []Node) Lookup {
	index := make(map[uint]Node, len(nodes))
	for _, node := range nodes {
		index[node.ID] = node
	}
	return func(id uint) (Node, bool) {
		node, ok := index[id]
		return node, ok
	}
}

// Label renders a chain as "A / B / C".
func Label(chain []Node) string {
	titles := make([]string, 0, len(chain))
	for _, node := range chain {
		titles = append(titles, node.Title)
	}
	return strings.Join(titles, labelSeparator)
}

func ParentID(node Node) *uint {
	if node.ParentID == nil {
		return nil
	}
	id := *node.ParentID
	return &id
}

// Path returns the materialized path of a node placed under parentPath.
// An empty parentPath makes the node a root.
func Path(parentPath string, id uint) string {
	segment := strconv.FormatUint(uint64(id), 10)
	if parentPath == "" {
		return segment
	}
	return parentPath + pathSeparator + segment
}

// ParsePath returns the ids of a materialized path, root first.
func ParsePath(path string) ([]uint, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, pathSeparator)
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid path segment %q in %q", part, path)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// ChildDepth returns the depth of a new child of a node at parentDepth, or
// ErrTooDeep when the child would exceed MaxDepth.
func ChildDepth(parentDepth int) (int, error) {
	depth := parentDepth + 1
	if depth > MaxDepth {
		return 0, ErrTooDeep
	}
	return depth, nil
}

func reverse(nodes []Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
