package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/primitives"
)

// DefaultVisualizer renders board snapshots as Graphviz DOT.
type DefaultVisualizer struct{}

// ExportDOT draws the game lifecycle with the board's current state filled,
// and the roster as a star around the Master.
func (v *DefaultVisualizer) ExportDOT(snap core.Snapshot, master primitives.BoardID) (string, error) {
	chart, err := spaceteam.NewLifecycle(spaceteam.LifecycleActions{})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(`digraph Spaceteam {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	current := snap.GameState()
	fmt.Fprintf(&buf, "  subgraph cluster_lifecycle {\n    label=\"%s (%s)\";\n", snap.Board, snap.Role)
	for _, st := range []spaceteam.GameState{spaceteam.StateWaiting, spaceteam.StateStarted, spaceteam.StateOver} {
		style := ""
		if st == current {
			style = " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(&buf, "    %q [label=%q%s];\n", st.String(), st.String(), style)
	}
	for _, e := range chart.Edges() {
		fmt.Fprintf(&buf, "    %q -> %q [label=%q];\n", e.From.String(), e.To.String(), e.Trigger.String())
	}
	buf.WriteString("  }\n")

	buf.WriteString("  subgraph cluster_roster {\n    label=\"roster\";\n")
	for _, b := range snap.Roster {
		shape := "ellipse"
		if b == master {
			shape = "doublecircle"
		}
		style := ""
		if b == snap.Board {
			style = " style=filled fillcolor=orange"
		}
		fmt.Fprintf(&buf, "    %q [shape=%s%s];\n", b.String(), shape, style)
	}
	for _, b := range snap.Roster {
		if b != master {
			fmt.Fprintf(&buf, "    %q -> %q [dir=both];\n", master.String(), b.String())
		}
	}
	buf.WriteString("  }\n")

	buf.WriteString("}\n")
	return buf.String(), nil
}

// ExportJSON serializes the snapshot.
func (v *DefaultVisualizer) ExportJSON(snap core.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}
