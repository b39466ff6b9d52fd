package history

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Append(text, "en", "CPU"); err != nil {
			t.Fatalf("Append(%q): %v", text, err)
		}
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// newest first
	want := []string{"third", "second", "first"}
	for i, e := range entries {
		if e.Text != want[i] {
			t.Errorf("entry %d text = %q, want %q", i, e.Text, want[i])
		}
		if e.ID == "" {
			t.Errorf("entry %d has no ID", i)
		}
		if e.CreatedAt.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	for range 5 {
		if _, err := s.Append("text", "en", "GPU"); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	entries, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Append("text", "en", "CPU"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries after clear, want 0", len(entries))
	}
}
