package main

import (
	"bytes"
	"compress/gzip"
	"context"

	"github.com/ma-chengyuan/optift/face"
)

// naiveSubsetter is the CLI's built-in stand-in for a real font
// subsetter. Real subsetting (hb-subset or equivalent) and WOFF2 encoding
// are out of scope here — face.Subsetter exists precisely so a
// production caller can plug a real one in. This
// implementation approximates a subset's compressed size by gzip-ing a
// byte slice proportional to the requested codepoint count, just enough
// to exercise sampler.Harness and produce a plausible, monotonic cost
// model end to end without one.
type naiveSubsetter struct{}

func (naiveSubsetter) Subset(ctx context.Context, f face.Face, codepoints []rune) ([]byte, error) {
	blob := f.Blob()
	n := len(codepoints)
	if n > len(blob) {
		n = len(blob)
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(blob[:n]); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
