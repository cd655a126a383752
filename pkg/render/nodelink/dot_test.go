package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

func newSheet(t *testing.T, cells ...[2]string) *spreadsheet.Spreadsheet {
	t.Helper()
	s := spreadsheet.New(spreadsheet.Options{})
	for _, c := range cells {
		if _, err := s.SetContentsOfCell(c[0], c[1]); err != nil {
			t.Fatalf("SetContentsOfCell(%s, %q): %v", c[0], c[1], err)
		}
	}
	return s
}

func TestToDOT_Basic(t *testing.T) {
	s := newSheet(t, [2]string{"A1", "5"}, [2]string{"B1", "=A1*2"})

	dot := ToDOT(s, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"A1" [label="A1"]`) {
		t.Error("ToDOT() output missing node A1")
	}
	if !strings.Contains(dot, `"B1" [label="B1"]`) {
		t.Error("ToDOT() output missing node B1")
	}
	if !strings.Contains(dot, `"A1" -> "B1"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestBuild_OneEdgePerDependency(t *testing.T) {
	s := newSheet(t,
		[2]string{"A1", "1"},
		[2]string{"B1", "=A1+A1"},
		[2]string{"C1", "=A1+B1+D1"},
		[2]string{"E1", "text"},
	)

	d := Build(s, Options{})
	if d.Edges != 4 {
		t.Errorf("Edges = %d, want 4", d.Edges)
	}
	if got := strings.Count(d.DOT, " -> "); got != 4 {
		t.Errorf("DOT has %d edges, want 4", got)
	}
	// A1 B1 C1 E1 plus the referenced empty D1.
	if d.Nodes != 5 {
		t.Errorf("Nodes = %d, want 5", d.Nodes)
	}
	for _, e := range []string{`"A1" -> "B1"`, `"A1" -> "C1"`, `"B1" -> "C1"`, `"D1" -> "C1"`} {
		if !strings.Contains(d.DOT, e) {
			t.Errorf("DOT missing edge %s", e)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	s := newSheet(t, [2]string{"A1", "2.5"}, [2]string{"B1", "=A1*4"})

	dot := ToDOT(s, Options{Detailed: true})

	if !strings.Contains(dot, `label="A1\n2.5"`) {
		t.Errorf("detailed label for number missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="B1\n=A1*4\n= 10"`) {
		t.Errorf("detailed label for formula missing:\n%s", dot)
	}
}

func TestToDOT_EmptyAndErrorCells(t *testing.T) {
	s := newSheet(t, [2]string{"B1", "=Z1+1"})

	dot := ToDOT(s, Options{})

	if !strings.Contains(dot, `"Z1" [label="Z1", style="rounded,filled,dashed"`) {
		t.Errorf("empty referenced cell not dashed:\n%s", dot)
	}
	if !strings.Contains(dot, `"B1" [label="B1", fillcolor="#f8d7da"`) {
		t.Errorf("error cell not highlighted:\n%s", dot)
	}
}

func TestFmtAttrs(t *testing.T) {
	number := spreadsheet.Contents{Kind: spreadsheet.KindNumber, Number: 1}
	if attrs := fmtAttrs(number, spreadsheet.Value{Kind: spreadsheet.KindNumber}, "x"); len(attrs) != 1 {
		t.Errorf("regular cell attrs = %v, want label only", attrs)
	}
	if attrs := fmtAttrs(spreadsheet.Contents{}, spreadsheet.Value{}, "x"); len(attrs) != 4 {
		t.Errorf("empty cell attrs = %v, want 4", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	s := newSheet(t, [2]string{"A1", "1"}, [2]string{"B1", "=A1"})
	svg, err := RenderSVG(context.Background(), ToDOT(s, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRender(t *testing.T) {
	s := newSheet(t, [2]string{"A1", "1"})
	d := Build(s, Options{})

	out, err := Render(context.Background(), d, "dot")
	if err != nil || string(out) != d.DOT {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
	if _, err := Render(context.Background(), d, "gif"); err == nil {
		t.Error("Render should reject unknown formats")
	}
}
