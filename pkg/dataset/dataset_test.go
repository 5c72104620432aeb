package dataset

import (
	"os"
	"path/filepath"
	"testing"

	cerrors "github.com/matzehuels/csrgraph/pkg/errors"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if len(c.Datasets) != 9 {
		t.Errorf("got %d datasets, want 9", len(c.Datasets))
	}
	if c.BaseURL != "https://pasgal-bs.cs.ucr.edu/bin/" {
		t.Errorf("BaseURL = %q", c.BaseURL)
	}
	if c.GraphDir != "data/graphs" {
		t.Errorf("GraphDir = %q", c.GraphDir)
	}
}

func TestLookup(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key      string
		wantName string
		wantOK   bool
	}{
		{"soc-LiveJournal1", "soc-LiveJournal1", true},
		{"LJ", "soc-LiveJournal1", true},
		{"lj", "soc-LiveJournal1", true},
		{"IN04", "in_2004", true},
		{"com-ORKUT", "com-orkut", true},
		{"DBLP", "DBLP", true},
		{"twitter", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ds, ok := c.Lookup(tt.key)
			if ok != tt.wantOK || ds.Name != tt.wantName {
				t.Errorf("Lookup(%q) = %+v, %v; want %s, %v", tt.key, ds, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestPathsAndURL(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	ds, _ := c.Lookup("YT")

	p := c.Paths(ds, "/work")
	if p.Text != filepath.Join("/work", "data", "graphs", "com-youtube.txt") {
		t.Errorf("Text = %q", p.Text)
	}
	if p.Binary != filepath.Join("/work", "data", "graphs", "com-youtube.bin") {
		t.Errorf("Binary = %q", p.Binary)
	}
	if got := c.URL(ds); got != "https://pasgal-bs.cs.ucr.edu/bin/com-youtube.bin" {
		t.Errorf("URL() = %q", got)
	}

	abs := &Catalog{BaseURL: "https://example.com", GraphDir: "/srv/graphs"}
	if got := abs.Dir("/ignored"); got != "/srv/graphs" {
		t.Errorf("Dir() with absolute graph_dir = %q", got)
	}
	if got := abs.URL(Dataset{Name: "x"}); got != "https://example.com/x.bin" {
		t.Errorf("URL() without trailing slash = %q", got)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"malformed", `base_url = `},
		{"bad url", "base_url = \"ftp://x\"\ngraph_dir = \"g\"\n"},
		{"empty graph dir", "base_url = \"https://x\"\ngraph_dir = \"\"\n"},
		{"unknown key", "base_url = \"https://x\"\ngraph_dir = \"g\"\nmirror = \"y\"\n"},
		{"traversal name", "base_url = \"https://x\"\ngraph_dir = \"g\"\n[[dataset]]\nname = \"../etc\"\nabbrev = \"E\"\n"},
		{"bad abbrev", "base_url = \"https://x\"\ngraph_dir = \"g\"\n[[dataset]]\nname = \"a\"\nabbrev = \"a b\"\n"},
		{"duplicate name", "base_url = \"https://x\"\ngraph_dir = \"g\"\n[[dataset]]\nname = \"a\"\nabbrev = \"A1\"\n[[dataset]]\nname = \"a\"\nabbrev = \"A2\"\n"},
		{"ambiguous abbrev", "base_url = \"https://x\"\ngraph_dir = \"g\"\n[[dataset]]\nname = \"a\"\nabbrev = \"X\"\n[[dataset]]\nname = \"b\"\nabbrev = \"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want INVALID_INPUT", cerrors.GetCode(err))
			}
		})
	}
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	content := "base_url = \"https://mirror.example.org/csr\"\ngraph_dir = \"/data\"\n\n[[dataset]]\nname = \"toy\"\nabbrev = \"TOY\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ds, ok := c.Lookup("toy"); !ok || c.URL(ds) != "https://mirror.example.org/csr/toy.bin" {
		t.Errorf("Lookup/URL mismatch: %+v %v", ds, ok)
	}

	t.Setenv(EnvCatalog, path)
	c, err = Resolve("")
	if err != nil || len(c.Datasets) != 1 {
		t.Errorf("Resolve(\"\") with env = %v, %v", c, err)
	}

	t.Setenv(EnvCatalog, "")
	c, err = Resolve("")
	if err != nil || len(c.Datasets) != 9 {
		t.Errorf("Resolve(\"\") default = %v, %v", c, err)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !cerrors.Is(err, cerrors.ErrCodeNotFound) {
		t.Errorf("Load(missing) code = %q, want NOT_FOUND", cerrors.GetCode(err))
	}
}
