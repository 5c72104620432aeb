package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestXDGDirs(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)
	t.Setenv("XDG_CONFIG_HOME", custom)

	tests := []struct {
		name string
		fn   func() (string, error)
	}{
		{"cache", cacheDir},
		{"config", configDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if want := filepath.Join(custom, appName); dir != want {
				t.Errorf("dir = %q, want %q", dir, want)
			}
		})
	}
}

func TestConfigDirDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("configDir() = %q, want suffix .config/%s", dir, appName)
	}
}

func TestLoadCatalogPrecedence(t *testing.T) {
	catalog := func(name, abbrev string) string {
		return "base_url = \"https://example.com/bin/\"\n" +
			"graph_dir = \"graphs\"\n\n" +
			"[[dataset]]\nname = \"" + name + "\"\nabbrev = \"" + abbrev + "\"\n"
	}

	config := t.TempDir()
	userDir := filepath.Join(config, appName)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, userDir, catalogFile, catalog("user-graph", "U"))

	other := t.TempDir()
	envPath := writeFile(t, other, "env.toml", catalog("env-graph", "E"))
	flagPath := writeFile(t, other, "flag.toml", catalog("flag-graph", "F"))

	tests := []struct {
		name   string
		flag   string
		env    string
		config string
		want   string
	}{
		{"flag wins", flagPath, envPath, config, "flag-graph"},
		{"env over user file", "", envPath, config, "env-graph"},
		{"user file", "", "", config, "user-graph"},
		{"built-in", "", "", t.TempDir(), "soc-LiveJournal1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.config)
			t.Setenv("CSRGRAPH_CATALOG", tt.env)

			var out, logs bytes.Buffer
			c := New(&out, &logs, LogInfo)
			cat, err := c.loadCatalog(tt.flag)
			if err != nil {
				t.Fatalf("loadCatalog() error: %v", err)
			}
			if _, ok := cat.Lookup(tt.want); !ok {
				t.Errorf("catalog does not contain %q", tt.want)
			}
		})
	}
}
