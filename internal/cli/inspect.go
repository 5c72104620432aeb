package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csrgraph/pkg/csr"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
	"github.com/matzehuels/csrgraph/pkg/stats"
)

// noVertex marks the --neighbors flag as unset.
const noVertex = -1

type inspectOpts struct {
	offsets   int   // number of leading offsets to print
	stats     bool  // print degree statistics
	neighbors int64 // vertex whose neighbor list is printed, or noVertex
}

// inspectCommand creates the inspect command, which prints the header and
// the first offsets of a CSR file.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{offsets: 2, neighbors: noVertex}

	cmd := &cobra.Command{
		Use:   "inspect <file.bin>",
		Short: "Show the header and leading offsets of a CSR file",
		Long: `Show the header and leading offsets of a binary CSR file.

The whole file is loaded and checked, so inspect also serves as a validator:
a truncated file or a header whose total_size_bytes does not match the file
length is reported as an error.`,
		Example: `  csrgraph inspect graph.bin
  csrgraph inspect --stats graph.bin
  csrgraph inspect --neighbors 42 graph.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.newRunner().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printInspect(args[0], g, opts)
		},
	}

	cmd.Flags().IntVar(&opts.offsets, "offsets", opts.offsets, "number of leading offsets to show")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "show degree statistics")
	cmd.Flags().Int64Var(&opts.neighbors, "neighbors", noVertex, "show the out-neighbors of vertex `V`")

	return cmd
}

func (c *CLI) printInspect(path string, g *csr.Graph, opts inspectOpts) error {
	c.printTitle(path)
	c.printKeyNumber("n", g.N)
	c.printKeyNumber("m", g.M)
	c.printKeyNumber("sizes", g.Size)

	shown := min(uint64(max(opts.offsets, 0)), uint64(len(g.Offsets)))
	for i := uint64(0); i < shown; i++ {
		c.printKeyNumber(fmt.Sprintf("offset[%d]", i), g.Offsets[i])
	}

	if opts.neighbors != noVertex {
		if opts.neighbors < 0 || uint64(opts.neighbors) >= g.N {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "vertex %d out of range [0, %d)", opts.neighbors, g.N)
		}
		v := uint64(opts.neighbors)
		c.printNewline()
		c.printKeyValue(fmt.Sprintf("neighbors(%d)", v), formatIDs(g.Neighbors(v)))
	}

	if opts.stats {
		c.printNewline()
		c.printStats(stats.Degrees(g))
	}
	return nil
}

func (c *CLI) printStats(s stats.Summary) {
	c.printTitle("Degrees")
	c.printKeyValue("out min/max", fmt.Sprintf("%d / %d (vertex %d)", s.MinOut, s.MaxOut, s.MaxOutVertex))
	c.printKeyValue("out mean", fmt.Sprintf("%.3f ± %.3f", s.MeanOut, s.StdDevOut))
	c.printKeyValue("out median", strconv.FormatFloat(s.MedianOut, 'f', -1, 64))
	c.printKeyValue("in max", fmt.Sprintf("%d (vertex %d)", s.MaxIn, s.MaxInVertex))
	c.printKeyNumber("sinks", s.Sinks)
	c.printKeyNumber("self loops", s.SelfLoops)
	if s.Dangling > 0 {
		c.printKeyNumber("dangling", s.Dangling)
	}
}

// formatIDs joins ids with spaces, as they appear in the text format.
func formatIDs(ids []uint32) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}
