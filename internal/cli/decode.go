package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
)

// decodeCommand creates the decode command, which turns a CSR file back
// into adjacency-list text.
func (c *CLI) decodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <file.bin>",
		Short: "Convert a binary CSR file back to adjacency-list text",
		Long: `Convert a binary CSR file back to adjacency-list text.

Vertices without out-neighbors are omitted except the last one, so converting
the result again reproduces the same CSR file.`,
		Example: `  csrgraph decode graph.bin > graph.txt
  csrgraph decode graph.bin -o graph.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runDecode(ctx context.Context, input, output string) error {
	g, err := c.newRunner().Load(ctx, input)
	if err != nil {
		return err
	}
	adj := g.Adjacency()

	if output == "" {
		return adjlist.Write(c.out, adj)
	}

	if err := adjlist.WriteFile(output, adj); err != nil {
		return err
	}

	c.printSuccess("Decoded %s", input)
	c.printFile(output)
	c.printGraphLine(g.N, g.M, g.Size)
	return nil
}
