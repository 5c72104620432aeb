package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/csrgraph/pkg/csr"
	"github.com/matzehuels/csrgraph/pkg/dataset"
	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
	"github.com/matzehuels/csrgraph/pkg/httputil"
)

// fetchCommand creates the datasets fetch command, which downloads
// prebuilt CSR files from the catalog's base URL.
func (c *CLI) fetchCommand(catalog *string) *cobra.Command {
	var (
		force bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "fetch <name>...",
		Short: "Download prebuilt CSR files into the graph directory",
		Long: `Download prebuilt CSR files into the graph directory.

A file fetched before is revalidated with the server and only transferred
again when it changed. Each download is checked to be a well-formed CSR
file whose length matches its header.`,
		Example: `  csrgraph datasets fetch EP SLDT
  csrgraph datasets fetch --force soc-LiveJournal1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(*catalog)
			if err != nil {
				return err
			}
			d := c.newDownloader()
			wd, err := os.Getwd()
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeIO, err, "working directory")
			}
			targets := make([]dataset.Dataset, len(args))
			for i, key := range args {
				if targets[i], err = findDataset(cat, key); err != nil {
					return err
				}
			}
			return c.fetchDatasets(cmd.Context(), d, cat, targets, wd, fetchOpts{force: force, jobs: jobs})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "download even if the local file is up to date")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 3, "number of parallel downloads")

	return cmd
}

// newDownloader creates a downloader whose validator cache lives in the
// user cache directory. Without a usable cache directory downloads are
// unconditional.
func (c *CLI) newDownloader() *httputil.Downloader {
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory", "err", err)
		return httputil.NewDownloader(nil, c.Logger)
	}
	cache, err := httputil.NewCache(dir, 0)
	if err != nil {
		c.Logger.Debug("cache unavailable", "dir", dir, "err", err)
		return httputil.NewDownloader(nil, c.Logger)
	}
	return httputil.NewDownloader(cache, c.Logger)
}

type fetchOpts struct {
	force bool // ignore recorded validators
	jobs  int  // parallel downloads
}

// fetchDatasets downloads every target in parallel, then checks and reports
// each file in argument order. The first failure cancels the remaining
// downloads.
func (c *CLI) fetchDatasets(ctx context.Context, d *httputil.Downloader, cat *dataset.Catalog, targets []dataset.Dataset, wd string, opts fetchOpts) error {
	results := make([]*httputil.Result, len(targets))

	err := c.withSpinner(ctx, fmt.Sprintf("Downloading %d dataset(s)...", len(targets)), func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(opts.jobs, 1))
		for i, ds := range targets {
			g.Go(func() error {
				url, dest := cat.URL(ds), cat.Paths(ds, wd).Binary
				c.Logger.Debug("fetching dataset", "name", ds.Name, "url", url, "dest", dest)
				res, err := d.Fetch(gctx, url, dest, opts.force)
				if err != nil {
					return fmt.Errorf("%s: %w", ds.Name, err)
				}
				results[i] = res
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return err
	}

	for i, ds := range targets {
		if err := c.checkDownload(d, ds, results[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkDownload verifies that a fetched file is a well-formed CSR graph
// and reports it. An invalid fresh download is removed.
func (c *CLI) checkDownload(d *httputil.Downloader, ds dataset.Dataset, res *httputil.Result) error {
	h, err := csr.ReadFileHeader(res.Path)
	if err != nil {
		if d.Cache != nil {
			_ = d.Cache.Forget(res.URL)
		}
		if !res.NotModified {
			_ = os.Remove(res.Path)
		}
		return fmt.Errorf("%s: %w", ds.Name, err)
	}

	if res.NotModified {
		c.printInfo("%s is up to date", ds.Name)
	} else {
		c.printSuccess("Downloaded %s", ds.Name)
	}
	c.printFile(res.Path)
	c.printGraphLine(h.N, h.M, h.Size)
	return nil
}
