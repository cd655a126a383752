// Package render provides output formats for cell dependency diagrams.
//
// The [nodelink] subpackage turns a sheet into a Graphviz DOT diagram and
// renders it to SVG. This package converts SVG to other formats using the
// external rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/cellgraph/pkg/render/nodelink
package render
