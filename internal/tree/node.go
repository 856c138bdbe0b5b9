// Package tree implements the mission definition text format: a recursive
// block grammar of `name { ... }` blocks holding `key = value` scalars and
// nested blocks. Repeated blocks of the same name form an ordered list.
package tree

// Node is one named entity in a definition tree. A node is either a scalar
// (Scalar true, Value holds the text) or a block (Children holds the ordered
// contents). Sibling names are not unique: repeated blocks of one name
// represent a sequence.
type Node struct {
	Name     string
	Value    string
	Scalar   bool
	Children []*Node

	// Line is the source line the node started on, 0 for synthesized nodes.
	Line int

	// Resolved marks a scalar whose value has already been through
	// expression evaluation. Evaluating a resolved scalar is a no-op.
	Resolved bool
}

// NewBlock creates an empty block node.
func NewBlock(name string) *Node {
	return &Node{Name: name}
}

// NewScalar creates a scalar node.
func NewScalar(name, value string) *Node {
	return &Node{Name: name, Value: value, Scalar: true}
}

// Append adds a child node, preserving declaration order.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// AppendScalar adds a scalar child.
func (n *Node) AppendScalar(name, value string) {
	n.Append(NewScalar(name, value))
}

// First returns the first child with the given name, or nil.
func (n *Node) First(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child with the given name, in declaration order.
func (n *Node) All(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ScalarValue returns the value of the first scalar child with the given
// name. The second return reports whether such a child exists.
func (n *Node) ScalarValue(name string) (string, bool) {
	for _, c := range n.Children {
		if c.Scalar && c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Blocks returns every non-scalar child, in declaration order.
func (n *Node) Blocks() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.Scalar {
			out = append(out, c)
		}
	}
	return out
}
