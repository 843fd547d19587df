package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/comalice/spaceteam/internal/core"
)

func TestExportDOT(t *testing.T) {
	v := &DefaultVisualizer{}
	dot, err := v.ExportDOT(sampleSnapshot(), 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"digraph Spaceteam {",
		`"waiting" -> "started" [label="begin"];`,
		`"started" -> "over" [label="health-depleted"];`,
		`"over" -> "waiting" [label="begin"];`,
		`"started" [label="started" style=filled fillcolor=lightgreen];`,
		`"board0" [shape=doublecircle];`,
		`"board1" [shape=ellipse style=filled fillcolor=orange];`,
		`"board0" -> "board2" [dir=both];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"board0" -> "board0"`) {
		t.Error("master linked to itself")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not closed")
	}
}

func TestExportJSON(t *testing.T) {
	v := &DefaultVisualizer{}
	data, err := v.ExportJSON(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	var back core.Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Health != 5 || back.GameState().String() != "started" {
		t.Errorf("decoded %+v", back)
	}
}
