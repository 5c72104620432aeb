package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
	"github.com/matzehuels/csrgraph/pkg/render"
)

const (
	formatSVG = "svg" // Graphviz-rendered image
	formatDOT = "dot" // DOT source, no Graphviz needed
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string // output file; the format follows its extension
	maxVertices  uint64 // refuse graphs with more vertices than this
	showIsolated bool   // draw vertices without edges
	offsets      bool   // label vertices with their offsets range
}

// renderCommand creates the render command for drawing small CSR graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file.bin>",
		Short: "Draw a small CSR graph as SVG or DOT",
		Long: `Draw a CSR graph with Graphviz.

The output format follows the extension of -o: ".svg" renders an image and
".dot" writes the DOT source. Edges pointing past the last vertex are drawn
dashed in red. Large graphs are refused; raise --max-vertices to override.`,
		Example: `  csrgraph render graph.bin -o graph.svg
  csrgraph render --offsets graph.bin -o graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + formatSVG
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot; default <input>.svg)")
	cmd.Flags().Uint64Var(&opts.maxVertices, "max-vertices", render.DefaultMaxVertices, "largest graph to draw")
	cmd.Flags().BoolVar(&opts.showIsolated, "isolated", false, "include vertices without edges")
	cmd.Flags().BoolVar(&opts.offsets, "offsets", false, "label vertices with their offsets range")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	format, err := outputFormat(opts.output)
	if err != nil {
		return err
	}

	g, err := c.newRunner().Load(ctx, input)
	if err != nil {
		return err
	}

	dot, err := render.ToDOT(g, render.Options{
		MaxVertices:  opts.maxVertices,
		ShowIsolated: opts.showIsolated,
		Offsets:      opts.offsets,
	})
	if err != nil {
		return err
	}

	data := []byte(dot)
	if format == formatSVG {
		err = c.withSpinner(ctx, "Rendering SVG...", func() error {
			var err error
			data, err = render.RenderSVG(ctx, dot)
			return err
		})
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "write %s", opts.output)
	}
	c.Logger.Debug("rendered graph", "format", format, "bytes", len(data))

	c.printSuccess("Rendered %s", format)
	c.printFile(opts.output)
	return nil
}

// outputFormat derives the render format from the output file extension.
func outputFormat(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case formatSVG, formatDOT:
		return ext, nil
	case "gv":
		return formatDOT, nil
	default:
		return "", cerrors.New(cerrors.ErrCodeInvalidInput, "unsupported output %q: use .svg or .dot", path)
	}
}
