// Package dataset describes the benchmark graphs that csrgraph converts:
// their names, short abbreviations, where prebuilt CSR files are published
// and where local copies live.
//
// The catalog is plain configuration. A default is compiled in from
// datasets.toml; [Load] reads a replacement from disk and [Resolve] picks
// between an explicit path, the CSRGRAPH_CATALOG environment variable and
// the default.
//
//	cat, err := dataset.Resolve("")
//	ds, ok := cat.Lookup("LJ")
//	paths := cat.Paths(ds, cwd) // data/graphs/soc-LiveJournal1.txt, .bin
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

// EnvCatalog names the environment variable holding a catalog path.
const EnvCatalog = "CSRGRAPH_CATALOG"

// File extensions for the two on-disk forms of a dataset.
const (
	TextExt   = ".txt"
	BinaryExt = ".bin"
)

//go:embed datasets.toml
var defaultCatalog []byte

// Dataset is one named benchmark graph.
type Dataset struct {
	Name   string `toml:"name"`
	Abbrev string `toml:"abbrev"`
}

// Catalog is the set of known datasets plus the location rules for them.
type Catalog struct {
	BaseURL  string    `toml:"base_url"`
	GraphDir string    `toml:"graph_dir"`
	Datasets []Dataset `toml:"dataset"`
}

// Paths holds the local file locations of a dataset.
type Paths struct {
	Text   string // adjacency-list input
	Binary string // CSR output
}

// Default returns the compiled-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode catalog")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	var c Catalog
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeNotFound, err, "catalog %s", path)
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode catalog %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Resolve loads the catalog at path, or at $CSRGRAPH_CATALOG when path is
// empty, falling back to the compiled-in default.
func Resolve(path string) (*Catalog, error) {
	if path == "" {
		path = os.Getenv(EnvCatalog)
	}
	if path == "" {
		return Default()
	}
	return Load(path)
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown catalog keys: %s", strings.Join(names, ", "))
	}
	return nil
}

// Validate checks the catalog for unsafe names and ambiguous aliases.
func (c *Catalog) Validate() error {
	if err := cerrors.ValidateURL(c.BaseURL); err != nil {
		return err
	}
	if c.GraphDir == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "graph_dir cannot be empty")
	}

	keys := make(map[string]string)
	claim := func(key, owner string) error {
		k := strings.ToLower(key)
		if prev, ok := keys[k]; ok && prev != owner {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "%q is used by both %s and %s", key, prev, owner)
		}
		keys[k] = owner
		return nil
	}

	names := make(map[string]bool)
	for _, ds := range c.Datasets {
		if err := cerrors.ValidateDatasetName(ds.Name); err != nil {
			return err
		}
		if err := cerrors.ValidateAbbreviation(ds.Abbrev); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		if names[ds.Name] {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "duplicate dataset %s", ds.Name)
		}
		names[ds.Name] = true
		if err := claim(ds.Name, ds.Name); err != nil {
			return err
		}
		if err := claim(ds.Abbrev, ds.Name); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a dataset by exact name, then by abbreviation or name
// ignoring case.
func (c *Catalog) Lookup(key string) (Dataset, bool) {
	for _, ds := range c.Datasets {
		if ds.Name == key {
			return ds, true
		}
	}
	for _, ds := range c.Datasets {
		if strings.EqualFold(ds.Abbrev, key) || strings.EqualFold(ds.Name, key) {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Dir returns the graph directory. A relative GraphDir is joined to base,
// which is normally the working directory.
func (c *Catalog) Dir(base string) string {
	if filepath.IsAbs(c.GraphDir) {
		return filepath.Clean(c.GraphDir)
	}
	return filepath.Join(base, c.GraphDir)
}

// Paths returns where ds is stored locally under base.
func (c *Catalog) Paths(ds Dataset, base string) Paths {
	dir := c.Dir(base)
	return Paths{
		Text:   filepath.Join(dir, ds.Name+TextExt),
		Binary: filepath.Join(dir, ds.Name+BinaryExt),
	}
}

// URL returns the download location of ds's prebuilt CSR file.
func (c *Catalog) URL(ds Dataset) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + url.PathEscape(ds.Name) + BinaryExt
}
