package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTextFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "go_channels-lecture.txt")
	body := "  Welcome to the lecture.\r\nToday we cover channels.\r\n\r\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Title != "go channels lecture" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if doc.Text != "Welcome to the lecture.\nToday we cover channels." {
		t.Fatalf("unexpected text %q", doc.Text)
	}
}

func TestLoadRejectsEmptyAndUnsupported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte(" \n\t"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	docx := filepath.Join(dir, "notes.docx")
	if err := os.WriteFile(docx, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(docx); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := Load(" "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestLoadInvalidPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Fatalf("expected pdf error, got %v", err)
	}
}

func TestVideoID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=42":                    "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":            "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://vimeo.com/123456":                             "",
		"":                                                     "",
	}
	for input, want := range cases {
		if got := VideoID(input); got != want {
			t.Fatalf("VideoID(%q) = %q want %q", input, got, want)
		}
	}
}
