package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkPrunesExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeTempFile(t, root, "b.js", "")
	writeTempFile(t, root, "a/c.vue", "")
	writeTempFile(t, root, "node_modules/x/eval.js", "eval(")
	writeTempFile(t, root, ".git/config", "")
	writeTempFile(t, root, "dist/out.js", "")
	writeTempFile(t, root, "a/notes.md", "")
	c := NewClassifier(Options{Root: root})

	var seen []string
	err := Walk(context.Background(), root, c, func(path string) error {
		rel, _ := filepath.Rel(root, path)
		seen = append(seen, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a/c.vue", "a/notes.md", "b.js"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("esperado %v, obtido %v", want, seen)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	c := NewClassifier(Options{})
	err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), c, func(string) error { return nil })
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("esperado ErrNotExist, obtido %v", err)
	}
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	root := t.TempDir()
	writeTempFile(t, root, "a.js", "")
	writeTempFile(t, root, "b.js", "")
	stop := errors.New("stop")
	calls := 0
	err := Walk(context.Background(), root, NewClassifier(Options{Root: root}), func(string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("esperado parada no primeiro arquivo, obtido err=%v calls=%d", err, calls)
	}
}
