package subscribers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subscribers.csv")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s, path
}

func TestNewStore_CreatesFileWithHeader(t *testing.T) {
	_, path := tempStore(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading created file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "number" {
		t.Errorf("created file = %q, want header only", got)
	}
}

func TestNewStore_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribers.csv")
	if err := os.WriteFile(path, []byte("number\n+15551234567\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	numbers, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(numbers) != 1 || numbers[0] != "+15551234567" {
		t.Errorf("List() = %v, want existing subscriber kept", numbers)
	}
}

func TestStore_AddListRemove(t *testing.T) {
	s, _ := tempStore(t)

	for _, number := range []string{"+15551234567", "+15559876543"} {
		if err := s.Add(number); err != nil {
			t.Fatalf("Add(%s) error: %v", number, err)
		}
	}

	numbers, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(numbers) != 2 {
		t.Fatalf("List() = %v, want 2 numbers", numbers)
	}

	// Adding a duplicate is a no-op.
	if err := s.Add("+15551234567"); err != nil {
		t.Fatalf("duplicate Add() error: %v", err)
	}
	numbers, _ = s.List()
	if len(numbers) != 2 {
		t.Errorf("List() after duplicate add = %v, want 2 numbers", numbers)
	}

	if err := s.Remove("+15551234567"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	numbers, _ = s.List()
	if len(numbers) != 1 || numbers[0] != "+15559876543" {
		t.Errorf("List() after remove = %v, want [+15559876543]", numbers)
	}

	// Removing an unknown number is a no-op.
	if err := s.Remove("+10000000000"); err != nil {
		t.Fatalf("Remove() of unknown number error: %v", err)
	}
	numbers, _ = s.List()
	if len(numbers) != 1 {
		t.Errorf("List() = %v, want 1 number", numbers)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	s, _ := tempStore(t)
	numbers, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(numbers) != 0 {
		t.Errorf("List() of fresh store = %v, want empty", numbers)
	}
}
