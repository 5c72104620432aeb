package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csrgraph/pkg/adjlist"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
	"github.com/matzehuels/csrgraph/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	strict      bool   // reject repeated source vertices
	maxVertices uint64 // upper bound on the vertex count; 0 means the parser default
	verify      bool   // re-read the output and compare it with the encoded graph
	dataset     string // derive both paths from this catalog entry
	catalog     string // catalog file overriding the default
}

// convertCommand creates the convert command, which turns an adjacency-list
// text file into a binary CSR file.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [input-path output-path]",
		Short: "Convert an adjacency-list text file to binary CSR",
		Long: `Convert a directed graph from adjacency-list text into the binary CSR layout.

Each non-blank input line lists a source vertex followed by its out-neighbors,
separated by whitespace. The output is replaced atomically, so a failed run
never leaves a partial file behind.

With --dataset, the input and output paths come from the dataset catalog:
  csrgraph convert --dataset LJ`,
		Example: `  csrgraph convert graph.txt graph.bin
  csrgraph convert --verify --strict graph.txt graph.bin`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.dataset != "" && len(args) == 0:
				return nil
			case opts.dataset != "":
				return fmt.Errorf("--dataset cannot be combined with explicit paths")
			default:
				return cobra.ExactArgs(2)(cmd, args)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output, err := c.convertPaths(opts, args)
			if err != nil {
				return err
			}
			return c.runConvert(cmd, input, output, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a source vertex appears on more than one line")
	cmd.Flags().Uint64Var(&opts.maxVertices, "max-vertices", 0, "maximum vertex count (default 2^32, with a check against very sparse ids)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "re-read the output and check it against the encoded graph")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "convert a catalog dataset by name or abbreviation")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "dataset catalog file (TOML)")

	return cmd
}

// convertPaths returns the input and output paths, resolving --dataset
// against the catalog when no positional paths were given.
func (c *CLI) convertPaths(opts convertOpts, args []string) (string, string, error) {
	if opts.dataset == "" {
		return args[0], args[1], nil
	}

	cat, err := c.loadCatalog(opts.catalog)
	if err != nil {
		return "", "", err
	}
	ds, err := findDataset(cat, opts.dataset)
	if err != nil {
		return "", "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", "", cerrors.Wrap(cerrors.ErrCodeIO, err, "working directory")
	}
	paths := cat.Paths(ds, wd)
	c.Logger.Debug("resolved dataset", "name", ds.Name, "input", paths.Text, "output", paths.Binary)
	return paths.Text, paths.Binary, nil
}

func (c *CLI) runConvert(cmd *cobra.Command, input, output string, opts convertOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	var res *pipeline.Result
	err := c.withSpinner(ctx, "Converting "+input+"...", func() error {
		var err error
		res, err = c.newRunner().Convert(ctx, pipeline.Options{
			Input:  input,
			Output: output,
			Parse: adjlist.Options{
				MaxVertices:   opts.maxVertices,
				StrictSources: opts.strict,
			},
			Verify: opts.verify,
		})
		return err
	})
	if err != nil {
		return err
	}

	prog.done("Converted " + input)
	c.printSuccess("Wrote CSR graph")
	c.printFile(res.Output)
	c.printGraphLine(res.N, res.M, res.Size)
	if opts.verify {
		c.printDetail("verified in %s", res.Stats.VerifyTime.Round(time.Millisecond))
	}
	return nil
}
