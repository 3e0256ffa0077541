package insight

import (
	"fmt"

	"github.com/viant/insightgraph/oracle"
)

// NodeKind mirrors oracle.Kind plus the Expression catch-all spec.md §3
// reserves for synthetic nodes that don't correspond to a resolvable
// declaration (none are currently emitted by the core, but the tag exists
// so a front-end-specific extension can use it without widening Relation).
type NodeKind string

const (
	KindVariable   NodeKind = "Variable"
	KindParameter  NodeKind = "Parameter"
	KindField      NodeKind = "Field"
	KindProperty   NodeKind = "Property"
	KindMethod     NodeKind = "Method"
	KindExpression NodeKind = "Expression"
)

func nodeKindOf(k oracle.Kind) NodeKind {
	switch k {
	case oracle.Local:
		return KindVariable
	case oracle.Parameter:
		return KindParameter
	case oracle.Field:
		return KindField
	case oracle.Property:
		return KindProperty
	case oracle.Method:
		return KindMethod
	default:
		return KindExpression
	}
}

// Node is one vertex of a VariableInsightGraph (spec.md §3). Edges are
// owned by their source node and name their target by node Id, never by
// pointer, so dedup and traversal bookkeeping stay trivial (spec.md §9).
type Node struct {
	Id       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Type     string          `json:"type" yaml:"type"`
	Location oracle.Location `json:"location" yaml:"location"`
	Excerpt  string          `json:"excerpt" yaml:"excerpt"`
	Kind     NodeKind        `json:"kind" yaml:"kind"`
	Edges    []Edge          `json:"edges" yaml:"edges"`
}

// Edge is one outgoing influence relationship from a Node.
type Edge struct {
	TargetId string          `json:"targetId" yaml:"targetId"`
	Relation Relation        `json:"relation" yaml:"relation"`
	Origin   oracle.Location `json:"origin" yaml:"origin"`
}

// Graph is a VariableInsightGraph: a root, a deduplicated node arena, and
// TotalReferences, the number of nodes other than the root. It is built
// once by a Driver invocation and thereafter
// read-only (spec.md §3 Lifecycles).
type Graph struct {
	Root            *Node   `json:"root" yaml:"root"`
	Nodes           []*Node `json:"nodes" yaml:"nodes"`
	TotalReferences int     `json:"totalReferences" yaml:"totalReferences"`

	byId map[string]*Node
}

func newGraph() *Graph {
	return &Graph{byId: map[string]*Node{}}
}

// nodeId computes the composite Id from spec.md §4.4:
// displayString ⧺ "@" ⧺ locationString(primaryLocation).
func nodeId(sym oracle.Symbol) string {
	loc := ""
	if l, ok := sym.PrimaryLocation(); ok {
		loc = l.String()
	}
	return fmt.Sprintf("%s@%s", sym.DisplayString(), loc)
}

// nodeFor returns the existing node for sym, or materializes and appends a
// new one. It never mutates an existing node's identity fields.
func (g *Graph) nodeFor(sym oracle.Symbol, excerpt string) *Node {
	id := nodeId(sym)
	if n, ok := g.byId[id]; ok {
		return n
	}
	loc, _ := sym.PrimaryLocation()
	n := &Node{
		Id:       id,
		Name:     sym.Name(),
		Type:     sym.Type(),
		Location: loc,
		Excerpt:  excerpt,
		Kind:     nodeKindOf(sym.Kind()),
	}
	g.byId[id] = n
	g.Nodes = append(g.Nodes, n)
	return n
}

// addEdge appends an edge from src to dst with relation, deduplicating on
// the (source, target, relation) triple (spec.md §3 invariant, §8 property
// 8, §9 "at most once per fingerprint"). Reports whether a new edge was
// added, so callers know whether to recurse into dst.
func (g *Graph) addEdge(src *Node, dst *Node, relation Relation, origin oracle.Location) bool {
	for _, e := range src.Edges {
		if e.TargetId == dst.Id && e.Relation == relation {
			return false
		}
	}
	src.Edges = append(src.Edges, Edge{TargetId: dst.Id, Relation: relation, Origin: origin})
	return true
}
