package face

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestLoadFile_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-font.bin")
	if err := os.WriteFile(path, []byte("this is definitely not a font file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadFile(path)
	if !errors.Is(err, ErrNotAFont) {
		t.Fatalf("expected ErrNotAFont, got %v", err)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Fatalf("expected an error loading a missing font file")
	}
}

// TestLoadFile_RealFont loads golang.org/x/image's embedded Go Regular
// TTF, a real font bundled with the Go toolchain's font module, and
// checks Blob() returns its exact bytes. It also cross-checks the fixture
// against golang.org/x/image/font/sfnt's own parser, so a future
// corruption of the embedded fixture would fail two independent parsers
// rather than just ours.
func TestLoadFile_RealFont(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := sfnt.Parse(goregular.TTF); err != nil {
		t.Fatalf("sanity check: sfnt.Parse rejected the embedded fixture: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if string(f.Blob()) != string(goregular.TTF) {
		t.Fatalf("Blob() did not return the file's exact bytes")
	}
}

type stubSubsetter struct {
	calls int
}

func (s *stubSubsetter) Subset(ctx context.Context, f Face, codepoints []rune) ([]byte, error) {
	s.calls++
	return f.Blob()[:len(codepoints)], nil
}

func TestSubsetterInterfaceSatisfiable(t *testing.T) {
	var s Subsetter = &stubSubsetter{}
	f := &fileFace{blob: []byte("0123456789")}
	out, err := s.Subset(context.Background(), f, []rune{'a', 'b', 'c'})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("Subset returned %d bytes, want 3", len(out))
	}
}
