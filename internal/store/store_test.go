package store

import (
	"path/filepath"
	"testing"
)

func TestGetAbsentKey(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	_, ok, err := s.Get(KeyTheme)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected absent key")
	}
}

func TestSetGetOverwrite(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if err := s.Set(KeyTheme, "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(KeyTheme)
	if err != nil || !ok || v != "dark" {
		t.Fatalf("Get = %q, %v, %v; want dark", v, ok, err)
	}

	// Last write wins.
	if err := s.Set(KeyTheme, "light"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _, _ = s.Get(KeyTheme)
	if v != "light" {
		t.Errorf("after overwrite = %q, want light", v)
	}
}

func TestDelete(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if err := s.Set(KeyLastDocument, "# hi"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(KeyLastDocument); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, ok, _ := s.Get(KeyLastDocument)
	if ok {
		t.Error("expected key gone after delete")
	}
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "marklive.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(KeyTheme, "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	v, ok, err := s2.Get(KeyTheme)
	if err != nil || !ok || v != "dark" {
		t.Fatalf("after reopen = %q, %v, %v; want dark", v, ok, err)
	}
}
