package globby

import (
	"fmt"
	"io"
)

// WriteDot writes a digraph representing the compiled pattern to the writer
// (in GraphViz syntax). Each node is a position in the pattern, and each
// edge consumes one path component, except for the unlabelled edges into
// ** nodes.
func (p *Pattern) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph {\n\trankdir=LR;"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\tinitial [label=\"\", style=invis];"); err != nil {
		return err
	}

	for i := range len(p.components) + 1 {
		shape := "circle"
		if i == len(p.components) {
			shape = "doublecircle"
		}
		if _, err := fmt.Fprintf(w, "\tc%d [label=\"\", shape=%s];\n", i, shape); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\tinitial -> c0 [label=%q];\n", p.prefix.String()); err != nil {
		return err
	}

	for i, c := range p.components {
		if c.kind == componentWildcard {
			if _, err := fmt.Fprintf(w, "\tc%d -> c%d [label=\"\", style=dashed];\n", i, i+1); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "\tc%d -> c%d [label=\"**\"];\n", i+1, i+1); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "\tc%d -> c%d [label=%q];\n", i, i+1, c.label()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

// label describes what the component matches.
func (c component) label() string {
	switch c.kind {
	case componentLiteral, componentParentDir:
		return c.literal
	case componentRegexp:
		return c.re.String()
	}
	return "**"
}
