// Package sampleio implements the sample harness's cache file codec and
// its FNV-1a keying hash. It is kept free of concurrency and of any real
// font/subsetter
// dependency so the keying and codec logic can be unit-tested in
// isolation from sampler.Harness.
package sampleio

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ma-chengyuan/optift/costmodel"
)

// Key hashes the font blob bytes, then each codepoint (as its rune
// value), then seed, then nSamples, in that order, with FNV-1a, so that
// any change to the font, codepoint universe, seed, or sample count
// produces a distinct cache file rather than a stale hit.
func Key(blob []byte, codepoints []rune, seed int64, nSamples int) uint64 {
	h := fnv.New64a()
	h.Write(blob)

	var buf [8]byte
	for _, c := range codepoints {
		binary.LittleEndian.PutUint32(buf[:4], uint32(c))
		h.Write(buf[:4])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(nSamples))
	h.Write(buf[:])

	return h.Sum64()
}

// CachePath returns the path a cost-model cache file for the given key
// would live at within dir, named optift_<HEX16>.json.
func CachePath(dir string, key uint64) string {
	return filepath.Join(dir, fmt.Sprintf("optift_%016X.json", key))
}

// cacheFile is the on-disk shape: {"raw_data": [[n, bytes], ...]}.
type cacheFile struct {
	RawData [][2]float64 `json:"raw_data"`
}

// Load reads and decodes a cache file written by Save.
func Load(path string) ([]costmodel.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sampleio: failed to read cache file: %w", err)
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("sampleio: failed to decode cache file: %w", err)
	}
	samples := make([]costmodel.Sample, len(cf.RawData))
	for i, pair := range cf.RawData {
		samples[i] = costmodel.Sample{N: int(pair[0]), Bytes: pair[1]}
	}
	return samples, nil
}

// Save writes raw to path as {"raw_data": [[n, bytes], ...]}.
func Save(path string, raw []costmodel.Sample) error {
	cf := cacheFile{RawData: make([][2]float64, len(raw))}
	for i, s := range raw {
		cf.RawData[i] = [2]float64{float64(s.N), s.Bytes}
	}
	data, err := json.MarshalIndent(cf, "", "    ")
	if err != nil {
		return fmt.Errorf("sampleio: failed to encode cache file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sampleio: failed to write cache file: %w", err)
	}
	return nil
}

// TempDir returns the directory the harness should cache sample data
// in: TMPDIR (falling back to /tmp) on Unix-like systems, TEMP then TMP
// on Windows.
func TempDir() string {
	if runtime.GOOS == "windows" {
		if v := os.Getenv("TEMP"); v != "" {
			return v
		}
		if v := os.Getenv("TMP"); v != "" {
			return v
		}
		return os.TempDir()
	}
	if v := os.Getenv("TMPDIR"); v != "" {
		return v
	}
	return "/tmp"
}
