// Package face defines the sample harness's external capability surface:
// a font face with its raw bytes, and a pluggable subsetter. Nothing in
// partition, costmodel, or bitset imports this package — only sampler,
// report and the CLI do; a font is consumed here for its bytes, never owned. Real
// subsetting, compression, and WOFF2 encoding remain a caller-supplied
// Subsetter; this package only validates that a file is a real font and
// exposes its bytes for cache keying.
package face

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font/opentype"
	"github.com/ma-chengyuan/optift/observability"
)

// ErrExternalSubset wraps any error a Subsetter implementation returns,
// distinguishing a failure in the caller-supplied subsetter from an
// error raised inside this module.
var ErrExternalSubset = errors.New("face: external subsetter failed")

// ErrNotAFont is returned by LoadFile when the given bytes do not parse
// as an OpenType/sfnt font.
var ErrNotAFont = errors.New("face: not a valid font file")

// Face is a loaded font: its raw table-complete bytes. The core needs
// nothing else from a font — glyph/codepoint mapping is the caller's
// concern and is maintained entirely outside this module.
type Face interface {
	Blob() []byte
}

// Subsetter produces the compressed bytes of f restricted to codepoints.
// Implementations own the actual subsetting, compression, and encoding
// pipeline (hb-subset, WOFF2, etc.) — none of that is reimplemented here.
type Subsetter interface {
	Subset(ctx context.Context, f Face, codepoints []rune) ([]byte, error)
}

// ProgressSink reports sample-harness progress. It is an alias for
// observability.ProgressSink so callers can pass the same value they use
// for metrics reporting elsewhere.
type ProgressSink = observability.ProgressSink

// NopProgressSink returns a ProgressSink that discards all progress
// reports, for callers (tests, library embedders) that don't want one.
func NopProgressSink() ProgressSink { return observability.NopProgressSink() }

type fileFace struct {
	blob []byte
}

func (f *fileFace) Blob() []byte { return f.blob }

// LoadFile reads path and validates it is a real OpenType/sfnt font by
// constructing an opentype.Loader over it. The raw bytes are retained
// for sample-harness cache keying; no table is parsed here beyond what
// NewLoader itself requires.
func LoadFile(path string) (Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("face: failed to read font file: %w", err)
	}
	if _, err := opentype.NewLoader(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAFont, err)
	}
	return &fileFace{blob: data}, nil
}
