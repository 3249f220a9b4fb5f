package storage_test

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-flashcards/internal/storage"
)

func TestFSStore_PutGetListDelete(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, k := range []string{"content/b/content.json", "content/a/content.json", "content/a/images/cat.png"} {
		if _, err := bs.Put(k, strings.NewReader("x:"+k)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	rc, err := bs.Get("content/a/images/cat.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "x:content/a/images/cat.png" {
		t.Fatalf("body %q", b)
	}

	keys, err := bs.List("content/a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"content/a/content.json", "content/a/images/cat.png"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys %v, want %v", keys, want)
	}
	if keys, _ := bs.List("nothing-here"); len(keys) != 0 {
		t.Fatalf("missing prefix listed %v", keys)
	}

	if err := bs.Delete("content/a/content.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := bs.Get("content/a/content.json"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_KeysStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	bs, _ := storage.NewFSStore(dir)
	key, err := bs.Put("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "escape.txt" {
		t.Fatalf("canonical key %q", key)
	}
	u, _ := bs.SignedURL(key)
	if !strings.HasPrefix(u, "file://") || !strings.Contains(u, "escape.txt") {
		t.Fatalf("signed url %q", u)
	}
	if _, err := bs.Put("/", strings.NewReader("x")); err == nil {
		t.Fatalf("empty key accepted")
	}
}
