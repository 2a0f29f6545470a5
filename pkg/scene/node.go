package scene

import (
	"fmt"

	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/layout"
)

// Kind distinguishes directories (pedestals) from files (boxes).
type Kind uint8

const (
	File Kind = iota
	Directory
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only "dir" and "file"
// are accepted.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "dir":
		*k = Directory
	case "file":
		*k = File
	default:
		return fmt.Errorf("unknown kind %q", b)
	}
	return nil
}

// Entry is one item of a directory listing.
type Entry struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Parent string `json:"parent,omitempty"`
}

// Node is an entry placed in world space.
// Parent is informational (wires between nodes), not ownership.
type Node struct {
	Path   string    `json:"path"`
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Pos    geom.Vec3 `json:"pos"`
	Parent string    `json:"parent,omitempty"`
}

// IsDir reports whether n is a directory.
func (n Node) IsDir() bool { return n.Kind == Directory }

// BuildNodes lays out entries on the spiral. At most limit entries are used;
// limit <= 0 means no limit.
func BuildNodes(entries []Entry, limit int, o layout.Options) []Node {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	pos := layout.Spiral(len(entries), o)
	nodes := make([]Node, len(entries))
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Path
		}
		nodes[i] = Node{
			Path:   e.Path,
			Name:   name,
			Kind:   e.Kind,
			Pos:    pos[i],
			Parent: e.Parent,
		}
	}
	return nodes
}
