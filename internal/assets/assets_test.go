package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestManagerLoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "east.png")
	writeFile(t, path, "first")

	m := NewManager()
	data, err := m.Load(path)
	if err != nil || string(data) != "first" {
		t.Fatalf("Load = %q, %v", data, err)
	}

	// cached copy survives a change on disk
	writeFile(t, path, "second")
	data, _ = m.Load(path)
	if string(data) != "first" {
		t.Errorf("cached Load = %q, want first", data)
	}
	if hits, misses := m.Cache().Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits %d misses, want 1/1", hits, misses)
	}

	if n := m.Invalidate(dir); n != 1 {
		t.Errorf("Invalidate removed %d, want 1", n)
	}
	data, _ = m.Load(path)
	if string(data) != "second" {
		t.Errorf("Load after invalidate = %q, want second", data)
	}
}

func TestManagerRootsPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(low, "sky", "up.png"), "low")
	writeFile(t, filepath.Join(low, "only-low.png"), "low only")
	writeFile(t, filepath.Join(high, "sky", "up.png"), "high")

	m := NewManager()
	if err := m.AddRoot(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(high); err != nil {
		t.Fatal(err)
	}

	if data, _ := m.Load(filepath.Join("sky", "up.png")); string(data) != "high" {
		t.Errorf("Load = %q, want high", data)
	}
	if data, _ := m.Load("only-low.png"); string(data) != "low only" {
		t.Errorf("Load = %q, want low only", data)
	}
	if _, err := m.Load("absent.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of absent file = %v, want ErrNotFound", err)
	}
	if err := m.AddRoot(filepath.Join(low, "only-low.png")); err == nil {
		t.Error("AddRoot accepted a file")
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := NewCache()
	c.Set("a/1", nil)
	c.Set("a/2", nil)
	c.Set("b/1", nil)

	if n := c.Invalidate("a/"); n != 2 {
		t.Errorf("Invalidate = %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestResolveFolder(t *testing.T) {
	res := t.TempDir()
	mars := filepath.Join(res, "mars_graphics", "resources", "Textures", "day")
	plain := filepath.Join(res, "Textures", "night")
	for _, d := range []string{mars, plain} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	abs := t.TempDir()

	r := Resolver{ResourcesPath: res}
	tests := []struct {
		folder string
		want   string
	}{
		{"day", mars},
		{"night", plain},
		{abs, abs},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.folder), func(t *testing.T) {
			got, err := r.ResolveFolder(tt.folder)
			if err != nil {
				t.Fatalf("ResolveFolder: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveFolder = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := r.ResolveFolder("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing folder err = %v, want ErrNotFound", err)
	}
	if _, err := r.ResolveFolder(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty folder err = %v, want ErrNotFound", err)
	}
}

func TestResolveFolderPrefersMarsLayout(t *testing.T) {
	res := t.TempDir()
	mars := filepath.Join(res, "mars_graphics", "resources", "Textures", "sky")
	for _, d := range []string{mars, filepath.Join(res, "Textures", "sky")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Resolver{ResourcesPath: res}.ResolveFolder("sky")
	if err != nil || got != mars {
		t.Errorf("ResolveFolder = %s, %v; want %s", got, err, mars)
	}
}

func TestResolveFile(t *testing.T) {
	res := t.TempDir()
	writeFile(t, filepath.Join(res, "meshes", "hills.obj"), "v 0 0 0\n")

	r := Resolver{ResourcesPath: res}
	got, err := r.ResolveFile(filepath.Join("meshes", "hills.obj"))
	if err != nil || got != filepath.Join(res, "meshes", "hills.obj") {
		t.Errorf("ResolveFile = %s, %v", got, err)
	}
	if _, err := r.ResolveFile("meshes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveFile of a directory = %v, want ErrNotFound", err)
	}
}
