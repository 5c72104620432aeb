package cli

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/csrgraph/pkg/dataset"
)

// catalogFile is the name of a user catalog inside the config directory.
const catalogFile = "datasets.toml"

// configDir returns the csrgraph config directory.
// Uses $XDG_CONFIG_HOME/csrgraph if set, otherwise ~/.config/csrgraph.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the csrgraph cache directory.
// Uses $XDG_CACHE_HOME/csrgraph if set, otherwise ~/.cache/csrgraph.
func cacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// userCatalog returns the path of the user catalog if one exists.
func userCatalog() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, catalogFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadCatalog resolves the dataset catalog in precedence order: the
// --catalog flag, $CSRGRAPH_CATALOG, the user config file, then the
// compiled-in default.
func (c *CLI) loadCatalog(flagPath string) (*dataset.Catalog, error) {
	path := flagPath
	if path == "" && os.Getenv(dataset.EnvCatalog) == "" {
		path = userCatalog()
	}
	cat, err := dataset.Resolve(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "path", path, "datasets", len(cat.Datasets))
	return cat, nil
}
