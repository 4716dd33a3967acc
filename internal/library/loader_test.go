package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeLibrary builds <root>/<crop>/<stage>/ with the given file names.
func writeLibrary(t *testing.T, root string, crop, stage string, files map[string][]byte) string {
	t.Helper()
	dir := filepath.Join(root, crop, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoader_Load(t *testing.T) {
	t.Run("caps at two examples per stage", func(t *testing.T) {
		root := t.TempDir()
		writeLibrary(t, root, "Wheat", "Flowering", map[string][]byte{
			"a.jpg": []byte("a"),
			"b.png": []byte("b"),
			"c.jpg": []byte("c"),
		})

		loader := NewLoader(root, nil)
		examples, skipped, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(skipped) != 0 {
			t.Errorf("unexpected skips: %v", skipped)
		}
		if len(examples) != 2 {
			t.Fatalf("expected 2 examples, got %d", len(examples))
		}
		for _, ex := range examples {
			if ex.Label != "Wheat - Flowering:" {
				t.Errorf("unexpected label %q", ex.Label)
			}
		}
	})

	t.Run("matches image extensions case-insensitively", func(t *testing.T) {
		root := t.TempDir()
		writeLibrary(t, root, "Maize", "Seedling", map[string][]byte{
			"photo.JPG":  []byte("x"),
			"notes.txt":  []byte("not an image"),
			"scan.JPEG":  []byte("y"),
			"extra.webp": []byte("unsupported"),
		})

		loader := NewLoader(root, nil)
		examples, _, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(examples) != 2 {
			t.Fatalf("expected 2 examples, got %d", len(examples))
		}
		for _, ex := range examples {
			if ex.MIME != "image/jpeg" {
				t.Errorf("expected image/jpeg, got %s", ex.MIME)
			}
		}
	})

	t.Run("skips unreadable stage but keeps the rest", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits are ignored when running as root")
		}
		root := t.TempDir()
		writeLibrary(t, root, "Wheat", "Flowering", map[string][]byte{"a.jpg": []byte("a")})
		locked := writeLibrary(t, root, "Wheat", "Tillering", map[string][]byte{"b.jpg": []byte("b")})

		if err := os.Chmod(locked, 0o000); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Chmod(locked, 0o755) })

		loader := NewLoader(root, nil)
		examples, skipped, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(examples) != 1 || examples[0].Label != "Wheat - Flowering:" {
			t.Fatalf("expected only the readable stage, got %+v", examples)
		}
		if len(skipped) != 1 || skipped[0].Path != locked {
			t.Fatalf("expected skip entry for %s, got %+v", locked, skipped)
		}
	})

	t.Run("errors when root is missing", func(t *testing.T) {
		loader := NewLoader(filepath.Join(t.TempDir(), "absent"), nil)
		if _, _, err := loader.Load(context.Background()); err == nil {
			t.Fatal("expected error for missing root")
		}
	})

	t.Run("re-reads the tree on every call", func(t *testing.T) {
		// The loader deliberately does not cache: changes on disk are
		// visible to the next analysis without a restart.
		root := t.TempDir()
		writeLibrary(t, root, "Rice", "Heading", map[string][]byte{"a.jpg": []byte("a")})

		loader := NewLoader(root, nil)
		first, _, err := loader.Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(first) != 1 {
			t.Fatalf("expected 1 example, got %d", len(first))
		}

		writeLibrary(t, root, "Rice", "Ripening", map[string][]byte{"b.jpg": []byte("b")})
		second, _, err := loader.Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(second) != 2 {
			t.Fatalf("expected 2 examples after adding a stage, got %d", len(second))
		}
	})
}

func TestImageMIME(t *testing.T) {
	cases := []struct {
		name string
		mime string
		ok   bool
	}{
		{"field.png", "image/png", true},
		{"field.jpg", "image/jpeg", true},
		{"field.JPEG", "image/jpeg", true},
		{"field.gif", "", false},
		{"field", "", false},
	}
	for _, tc := range cases {
		mime, ok := imageMIME(tc.name)
		if mime != tc.mime || ok != tc.ok {
			t.Errorf("imageMIME(%q) = %q, %v; want %q, %v", tc.name, mime, ok, tc.mime, tc.ok)
		}
	}
}
