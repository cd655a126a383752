// Package nodelink draws a sheet's dependency graph with Graphviz.
//
// Every non-empty cell becomes a node, and so does every empty cell that a
// formula references. An edge runs from each dependee to the cell whose
// formula reads it, so arrows follow the direction values flow:
//
//	A1 = 5        A1 ──▶ B1 ──▶ C1
//	B1 = =A1*2
//	C1 = =B1+D1   D1 ──▶ C1   (D1 is empty, drawn dashed)
//
// Cells whose value is a formula error are filled red.
//
// # Usage
//
//	dot := nodelink.ToDOT(sheet, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] does the same in one step for the dot, svg, pdf and png formats
// and emits observability render hooks.
package nodelink
