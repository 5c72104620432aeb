package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csrgraph/pkg/dataset"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// datasetsCommand creates the datasets command with its list, path and url
// subcommands.
func (c *CLI) datasetsCommand() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the benchmark datasets and where they live",
		Long: `List the benchmark datasets known to the catalog.

The catalog is read from --catalog, then $CSRGRAPH_CATALOG, then
~/.config/csrgraph/datasets.toml, and finally the built-in list.`,
	}

	cmd.PersistentFlags().StringVar(&catalog, "catalog", "", "dataset catalog file (TOML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List datasets and their local files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(catalog)
			if err != nil {
				return err
			}
			return c.printDatasets(cat)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path <name>",
		Short: "Print the local text and binary paths of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ds, err := c.lookupDataset(catalog, args[0])
			if err != nil {
				return err
			}
			wd, err := os.Getwd()
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeIO, err, "working directory")
			}
			paths := cat.Paths(ds, wd)
			fmt.Fprintln(c.out, paths.Text)
			fmt.Fprintln(c.out, paths.Binary)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "url <name>",
		Short: "Print the download URL of a dataset's CSR file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ds, err := c.lookupDataset(catalog, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, cat.URL(ds))
			return nil
		},
	})

	cmd.AddCommand(c.fetchCommand(&catalog))

	return cmd
}

func (c *CLI) lookupDataset(catalog, key string) (*dataset.Catalog, dataset.Dataset, error) {
	cat, err := c.loadCatalog(catalog)
	if err != nil {
		return nil, dataset.Dataset{}, err
	}
	ds, err := findDataset(cat, key)
	if err != nil {
		return nil, dataset.Dataset{}, err
	}
	return cat, ds, nil
}

func findDataset(cat *dataset.Catalog, key string) (dataset.Dataset, error) {
	ds, ok := cat.Lookup(key)
	if !ok {
		return dataset.Dataset{}, cerrors.New(cerrors.ErrCodeNotFound, "unknown dataset %q (see 'csrgraph datasets list')", key)
	}
	return ds, nil
}

func (c *CLI) printDatasets(cat *dataset.Catalog) error {
	wd, err := os.Getwd()
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeIO, err, "working directory")
	}

	c.printTitle("Datasets")
	c.printDetail("%s", cat.Dir(wd))
	c.printNewline()
	for _, ds := range cat.Datasets {
		paths := cat.Paths(ds, wd)
		c.printKeyValue(ds.Abbrev, ds.Name+" "+StyleDim.Render(localState(paths)))
	}
	c.printNewline()
	c.printInfo("Prebuilt files: %s", StyleLink.Render(cat.BaseURL))
	return nil
}

// localState describes which of a dataset's files exist on disk.
func localState(p dataset.Paths) string {
	txt, bin := exists(p.Text), exists(p.Binary)
	switch {
	case txt && bin:
		return "(text, csr)"
	case bin:
		return "(csr)"
	case txt:
		return "(text)"
	default:
		return ""
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
