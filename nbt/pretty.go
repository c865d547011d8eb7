package nbt

import (
	"fmt"
	"strings"
)

// Sprint renders v as a deterministic, indented diagnostic string. The
// output is a pure function of v's content, including compound
// insertion order (§4.6): two calls on structurally equal values always
// produce byte-identical output, and test suites may rely on that, but
// not on any particular layout beyond that guarantee.
//
// Grounded on moshee-go-nbt's Compound.pretty_print/PrettyPrint (indent
// per nesting level, "<Kind> \"name\": value" lines), generalized to
// return a string instead of writing to stdout and to walk compound
// entries in insertion order rather than Go map iteration order.
func Sprint(v Value) string {
	var b strings.Builder
	sprintValue(&b, "", v, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func sprintValue(b *strings.Builder, name string, v Value, depth int) {
	indent(b, depth)
	switch t := v.(type) {
	case *Compound:
		fmt.Fprintf(b, "Compound(%q, %d entries)\n", name, t.Len())
		t.Range(func(key string, kind TagID, child Value) bool {
			sprintValue(b, key, child, depth+1)
			return true
		})
	case *List:
		fmt.Fprintf(b, "List(%q, of %s, %d entries)\n", name, t.Kind, t.Len())
		for i, child := range t.Items {
			sprintValue(b, fmt.Sprintf("%d", i), child, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s(%q): %s\n", v.Tag(), name, v.String())
	}
}
