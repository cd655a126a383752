package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cellgraph/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(os.Stderr, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirOverrides(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c := New(os.Stderr, LogInfo)

	dir, _ := c.cacheDir()
	if dir != filepath.Join(base, appName) {
		t.Errorf("cacheDir() = %q, want under XDG_CACHE_HOME", dir)
	}

	c.Config.Cache.Dir = "/srv/cellgraph-cache"
	if dir, _ := c.cacheDir(); dir != "/srv/cellgraph-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
	if loc := c.cacheLocation(); loc != "/srv/cellgraph-cache" {
		t.Errorf("cacheLocation() = %q", loc)
	}

	c.Config.Cache.RedisURL = "redis://localhost:6379/0"
	if loc := c.cacheLocation(); loc != "redis://localhost:6379/0" {
		t.Errorf("cacheLocation() = %q, want the Redis URL", loc)
	}
}

func TestConfigDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dir, base) || filepath.Base(dir) != appName {
		t.Errorf("configDir() = %q", dir)
	}
}

func TestNewCache(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Cache.Dir = t.TempDir()

	ch, err := c.newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want NullCache", ch)
	}

	ch, err = c.newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(cache.Clearer); !ok {
		t.Errorf("newCache(false) = %T, want a clearable cache", ch)
	}

	c.Config.Cache.RedisURL = "not a url"
	if _, err := c.newCache(false); err == nil {
		t.Error("newCache() should reject an invalid Redis URL")
	}
}
