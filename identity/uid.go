package identity

import "fmt"

// NodeKind distinguishes an EMPDAG node's role: Mathematical Program or Nash
// equilibrium node.
type NodeKind uint8

const (
	KindMP NodeKind = iota
	KindNash
)

func (k NodeKind) String() string {
	if k == KindNash {
		return "Nash"
	}

	return "MP"
}

// EdgeKind distinguishes how a parent's objective is coupled to a child:
// a leader/follower control relationship, or a value-function coupling.
type EdgeKind uint8

const (
	EdgeCTRL EdgeKind = iota
	EdgeVF
)

func (k EdgeKind) String() string {
	if k == EdgeVF {
		return "VF"
	}

	return "CTRL"
}

// NodeUID packs (node kind, edge kind, id) into a single unsigned word, per
// spec.md §3: "low bit is edge kind, the next bit is node kind, the rest is
// the id". The edge-kind bit is only meaningful when the UID was read off a
// reverse-arc list (it then records the kind of the incoming edge); UIDs used
// as roots or forward-lookup keys should be built with edge kind EdgeCTRL by
// convention and callers must not inspect EdgeKind() on those.
type NodeUID uint32

const (
	uidEdgeBit  = 1
	uidKindBit  = 1
	uidIDShift  = uidEdgeBit + uidKindBit
	uidEdgeMask = 0b1
	uidKindMask = 0b1 << uidEdgeBit
)

// PackUID builds a NodeUID from its three constituent fields. id must fit in
// the remaining bits above the two tag bits.
func PackUID(kind NodeKind, edge EdgeKind, id int) NodeUID {
	return NodeUID(uint32(id)<<uidIDShift | uint32(kind)<<uidEdgeBit | uint32(edge))
}

// MPUid is a convenience constructor for an MP node UID reached via a CTRL
// edge (the conventional edge kind for forward/root UIDs).
func MPUid(id int) NodeUID { return PackUID(KindMP, EdgeCTRL, id) }

// NashUid is a convenience constructor for a Nash node UID reached via a CTRL
// edge.
func NashUid(id int) NodeUID { return PackUID(KindNash, EdgeCTRL, id) }

// Unpack decomposes u back into its (kind, edge, id) fields. This always
// round-trips with PackUID: pack(kind, edge, id) -> uid -> unpack(uid) ==
// (kind, edge, id), the UID round-trip property from spec.md §8.
func (u NodeUID) Unpack() (kind NodeKind, edge EdgeKind, id int) {
	edge = EdgeKind(u & uidEdgeMask)
	kind = NodeKind((u & uidKindMask) >> uidEdgeBit)
	id = int(u >> uidIDShift)

	return kind, edge, id
}

// Kind returns the node-kind field of u.
func (u NodeUID) Kind() NodeKind { k, _, _ := u.Unpack(); return k }

// EdgeKind returns the edge-kind field of u. Only meaningful when u was
// obtained from a reverse-arc list; see the NodeUID doc comment.
func (u NodeUID) EdgeKind() EdgeKind { _, e, _ := u.Unpack(); return e }

// ID returns the id field of u.
func (u NodeUID) ID() int { _, _, id := u.Unpack(); return id }

// IsMP reports whether u names an MP node.
func (u NodeUID) IsMP() bool { return u.Kind() == KindMP }

// IsNash reports whether u names a Nash node.
func (u NodeUID) IsNash() bool { return u.Kind() == KindNash }

// WithEdgeKind returns a copy of u with its edge-kind bit set to k, leaving
// node kind and id unchanged. Used when appending u to a reverse-arc list,
// which must record the kind of the edge that was just traversed.
func (u NodeUID) WithEdgeKind(k EdgeKind) NodeUID {
	kind, _, id := u.Unpack()

	return PackUID(kind, k, id)
}

func (u NodeUID) String() string {
	kind, edge, id := u.Unpack()

	return fmt.Sprintf("%s#%d[%s]", kind, id, edge)
}
