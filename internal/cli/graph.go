package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/cache"
	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/render"
	"github.com/matzehuels/cellgraph/pkg/render/nodelink"
)

// graphOptions holds the flags of the graph command.
type graphOptions struct {
	output   string
	format   string
	detailed bool
	noCache  bool
}

// graphCommand creates the graph command for rendering cell dependencies.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOptions{format: "svg"}

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Render the dependency graph of a sheet",
		Long: `Render the dependency graph of a sheet with Graphviz.

Each cell is a node and each edge points from a cell to a formula that reads
it. Rendered output is cached by the hash of the graph source; use --no-cache
to bypass the cache. The pdf and png formats require rsvg-convert.`,
		Example: `  cellgraph graph budget.json
  cellgraph graph budget.json --format dot -o -
  cellgraph graph budget.json --detailed --format png -o budget.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default FILE with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(nodelink.Formats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with contents and values")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path string, opts graphOptions) error {
	if !slices.Contains(nodelink.Formats, opts.format) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s)", opts.format, strings.Join(nodelink.Formats, ", "))
	}
	if (opts.format == "pdf" || opts.format == "png") && !render.Available() {
		return errors.New(errors.ErrCodeUnsupported, "%s output requires rsvg-convert", opts.format)
	}

	s, err := c.openSheet(path, false)
	if err != nil {
		return err
	}
	d := nodelink.Build(s, nodelink.Options{Detailed: opts.detailed})

	data, cached, err := c.renderDiagram(ctx, d, opts)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeReadWrite, err, "write %s", out)
	}

	printSuccess("Rendered %s", opts.format)
	printStats(d.Nodes, d.Edges, cached)
	printFile(out)
	return nil
}

// renderDiagram renders d, consulting the render cache for every format but
// dot.
func (c *CLI) renderDiagram(ctx context.Context, d nodelink.Diagram, opts graphOptions) ([]byte, bool, error) {
	if opts.format == "dot" {
		return []byte(d.DOT), false, nil
	}

	logger := loggerFromContext(ctx)
	ch, err := c.newCache(opts.noCache)
	if err != nil {
		return nil, false, err
	}
	defer ch.Close()

	key := cache.NewDefaultKeyer().RenderKey(cache.Hash([]byte(d.DOT)), cache.RenderKeyOpts{
		Format:   opts.format,
		Detailed: opts.detailed,
	})
	if data, ok, err := ch.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "error", err)
	} else if ok {
		return data, true, nil
	}

	var data []byte
	err = withSpinner(ctx, os.Stderr, "Rendering "+opts.format+"...", func() error {
		var err error
		data, err = nodelink.Render(ctx, d, opts.format)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	ttl, _ := c.Config.CacheTTL()
	if err := ch.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return data, false, nil
}
