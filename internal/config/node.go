package config

import "fmt"

// node is the format-neutral option tree both decoders produce. Mapping
// fields keep document order, which is the output order of user-agents.
type node struct {
	kind   nodeKind
	text   string // kindString, kindNumber
	truth  bool   // kindBool
	items  []node
	fields []field
	line   int // 1-based; 0 when unknown
}

type field struct {
	key   string
	value node
}

type nodeKind int

const (
	kindNull nodeKind = iota
	kindString
	kindNumber
	kindBool
	kindList
	kindMap
)

func (k nodeKind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindBool:
		return "bool"
	case kindList:
		return "list"
	case kindMap:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// lookup returns the index of key in a mapping node, or -1.
func (n node) lookup(key string) int {
	for i, f := range n.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}
