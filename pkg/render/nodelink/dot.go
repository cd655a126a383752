package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cellgraph/pkg/observability"
	"github.com/matzehuels/cellgraph/pkg/render"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// Sheet is the part of a spreadsheet a diagram reads.
type Sheet interface {
	NonemptyCells() []string
	CellContents(name string) (spreadsheet.Contents, error)
	CellValue(name string) (spreadsheet.Value, error)
	Dependees(name string) ([]string, error)
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes contents and value in node labels.
	// When false, only the cell name is shown.
	Detailed bool
}

// Diagram is a DOT source with the size of the graph it describes.
type Diagram struct {
	DOT   string
	Nodes int
	Edges int
}

type edge struct{ from, to string }

// Build converts the dependency graph of s to a Diagram.
func Build(s Sheet, opts Options) Diagram {
	cells := s.NonemptyCells()
	nodes := slices.Clone(cells)
	var edges []edge
	for _, name := range cells {
		deps, _ := s.Dependees(name)
		for _, dep := range deps {
			edges = append(edges, edge{from: dep, to: name})
			nodes = append(nodes, dep)
		}
	}
	slices.Sort(nodes)
	nodes = slices.Compact(nodes)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range nodes {
		contents, _ := s.CellContents(name)
		value, _ := s.CellValue(name)
		label := fmtLabel(name, contents, value, opts.Detailed)
		attrs := fmtAttrs(contents, value, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return Diagram{DOT: buf.String(), Nodes: len(nodes), Edges: len(edges)}
}

// ToDOT converts the dependency graph of s to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(s Sheet, opts Options) string {
	return Build(s, opts).DOT
}

func fmtLabel(name string, c spreadsheet.Contents, v spreadsheet.Value, detailed bool) string {
	if !detailed || c.Kind == spreadsheet.KindEmpty {
		return name
	}
	label := name + "\n" + c.String()
	if c.Kind == spreadsheet.KindFormula {
		label += "\n= " + v.String()
	}
	return label
}

func fmtAttrs(c spreadsheet.Contents, v spreadsheet.Value, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case c.Kind == spreadsheet.KindEmpty:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case v.IsError():
		attrs = append(attrs, "fillcolor=\"#f8d7da\"", "color=\"#c0392b\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing starts at the
// origin and has explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Formats lists the formats accepted by Render.
var Formats = []string{"dot", "svg", "pdf", "png"}

// Render produces d in the given format. The pdf and png formats require
// rsvg-convert (see package render).
func Render(ctx context.Context, d Diagram, format string) ([]byte, error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, format, d.Nodes)
	out, err := renderFormat(ctx, d.DOT, format)
	observability.Render().OnRenderComplete(ctx, format, time.Since(start), err)
	return out, err
}

func renderFormat(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return RenderSVG(ctx, dot)
	case "pdf":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	case "png":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, 2.0)
	}
	return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
