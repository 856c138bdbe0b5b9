package tree

import "strings"

// Write renders nodes back into definition text. The output parses back to
// an equal tree, which is what the codec round-trip property rests on.
func Write(nodes ...*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("\t", depth)
	if n.Scalar {
		b.WriteString(indent)
		b.WriteString(n.Name)
		b.WriteString(" = ")
		b.WriteString(n.Value)
		b.WriteByte('\n')
		return
	}
	b.WriteString(indent)
	b.WriteString(n.Name)
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString("{\n")
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}
