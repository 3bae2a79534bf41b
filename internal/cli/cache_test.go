package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yorgath/orthogram/pkg/cache"
)

func TestCacheClearRemovesShardedEntries(t *testing.T) {
	dir := t.TempDir()
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", dir)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	store, err := cache.NewFileCache(filepath.Join(dir, appName))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "one", []byte("a"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Set(ctx, "two", []byte("b"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	store.Close()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	store, err = cache.NewFileCache(filepath.Join(dir, appName))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer store.Close()
	for _, key := range []string{"one", "two"} {
		if _, hit, _ := store.Get(ctx, key); hit {
			t.Errorf("entry %q should be gone after clear", key)
		}
	}

	shards, err := os.ReadDir(filepath.Join(dir, appName))
	if err != nil {
		t.Fatalf("reading cache dir: %v", err)
	}
	for _, shard := range shards {
		if shard.IsDir() {
			t.Errorf("shard directory %q should be removed once empty", shard.Name())
		}
	}
}

func TestCacheClearEmptyCache(t *testing.T) {
	dir := t.TempDir()
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", dir)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear on empty cache error: %v", err)
	}
}
