package page_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/geocoder89/formhub/internal/page"
)

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.html")

	if err := os.WriteFile(path, []byte("<h1>home</h1>"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := page.NewFileLoader(path, 0)

	got, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "<h1>home</h1>" {
		t.Fatalf("got %q", got)
	}

	// without a TTL every load hits the disk
	if err := os.WriteFile(path, []byte("<h1>changed</h1>"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, _ = l.Load()
	if string(got) != "<h1>changed</h1>" {
		t.Fatalf("expected fresh contents, got %q", got)
	}
}

func TestFileLoaderCachesWithTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.html")

	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := page.NewFileLoader(path, time.Hour)

	if _, err := l.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := l.Load()
	if err != nil || string(got) != "v1" {
		t.Fatalf("expected cached v1, got %q %v", got, err)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	l := page.NewFileLoader(filepath.Join(t.TempDir(), "missing.html"), time.Hour)

	if _, err := l.Load(); err == nil {
		t.Fatalf("expected error for missing page")
	}
}
