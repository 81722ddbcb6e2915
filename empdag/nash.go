package empdag

import "github.com/reshop/reshop-core/identity"

// NashNode is a Nash-equilibrium node: an id, an optional name, and its
// children's MP UIDs, per spec.md §3. A Nash node must have >=1 child after
// the EmpDag is finalized.
type NashNode struct {
	ID       identity.NashIndex
	Name     string
	Children []identity.NodeUID
}

// NewNashNode constructs an empty Nash node.
func NewNashNode(id identity.NashIndex, name string) *NashNode {
	return &NashNode{ID: id, Name: name}
}

// AddChild appends child to the Nash node's child list. Duplicates are
// rejected by the caller (EmpDag.NashAddMP), not here, since NashNode itself
// has no view of the rest of the graph.
func (n *NashNode) AddChild(child identity.NodeUID) {
	n.Children = append(n.Children, child)
}

func (n *NashNode) displayName() string {
	if n.Name != "" {
		return n.Name
	}

	return n.ID.String()
}
