// Package sampler drives the cost-model sample harness: it draws random
// codepoint samples, subsets and compresses each one through a
// caller-supplied face.Subsetter, and fits a costmodel.Model to the
// results, caching the raw samples on disk via sampleio so repeat runs
// against the same font/codepoint/seed combination skip the expensive
// part entirely.
package sampler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"github.com/ma-chengyuan/optift/costmodel"
	"github.com/ma-chengyuan/optift/face"
	"github.com/ma-chengyuan/optift/observability"
	"github.com/ma-chengyuan/optift/sampleio"
)

// Harness builds cost models by sampling a font through a Subsetter.
// Logger and Progress default to their Nop implementations when left
// zero-valued.
type Harness struct {
	Subsetter face.Subsetter
	Progress  face.ProgressSink
	Logger    observability.Logger
	CacheDir  string
}

func (h *Harness) logger() observability.Logger {
	if h.Logger == nil {
		return observability.NopLogger{}
	}
	return h.Logger
}

func (h *Harness) progress() face.ProgressSink {
	if h.Progress == nil {
		return face.NopProgressSink()
	}
	return h.Progress
}

func (h *Harness) cacheDir() string {
	if h.CacheDir == "" {
		return sampleio.TempDir()
	}
	return h.CacheDir
}

// BuildCostModel fits an empirical costmodel.Model for f restricted to
// codepoints, drawing nSamples reservoir samples seeded by seed. A cache
// hit under CacheDir skips straight to fitting; a cache miss (or a
// corrupt/unreadable cache file, which is logged and treated the same as
// a miss) runs the full sampling pass and then writes the cache.
func (h *Harness) BuildCostModel(ctx context.Context, f face.Face, codepoints []rune, seed int64, nSamples int) (costmodel.Model, error) {
	log := h.logger()
	key := sampleio.Key(f.Blob(), codepoints, seed, nSamples)
	cachePath := sampleio.CachePath(h.cacheDir(), key)

	raw, err := sampleio.Load(cachePath)
	if err != nil {
		log.Info("cost model cache unavailable, regenerating", observability.String("path", cachePath), observability.Error(err))
		raw, err = h.sample(ctx, f, codepoints, seed, nSamples)
		if err != nil {
			return costmodel.Model{}, err
		}
		if saveErr := sampleio.Save(cachePath, raw); saveErr != nil {
			log.Warn("failed to write cost model cache, proceeding without it", observability.String("path", cachePath), observability.Error(saveErr))
		} else {
			log.Info("saved cost model raw data", observability.String("path", cachePath))
		}
	} else {
		log.Info("loaded cost model raw data from cache", observability.String("path", cachePath))
	}

	if linear, err := costmodel.FitLinear(raw); err == nil {
		log.Info("approximate linear cost model",
			observability.Float64("cost_per_glyph", linear.CostPerGlyph),
			observability.Float64("cost_base", linear.CostBase))
	}

	return costmodel.FitEmpirical(raw)
}

// drawSamples draws nSamples reservoir samples from codepoints using a
// PCG-seeded generator: for each sample, a size is drawn uniformly from
// [1, len(codepoints)], then that many distinct codepoints are drawn
// without replacement via a Fisher-Yates partial shuffle over a working
// copy of codepoints. Two harnesses given the same seed and codepoints
// draw bit-identical samples in the same order.
func drawSamples(codepoints []rune, seed int64, nSamples int) [][]rune {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32|1))
	universe := len(codepoints)
	samples := make([][]rune, nSamples)
	pool := make([]rune, universe)

	for i := 0; i < nSamples; i++ {
		copy(pool, codepoints)
		n := 1 + rng.IntN(universe)
		// Partial Fisher-Yates: shuffle only the first n positions.
		for k := 0; k < n; k++ {
			j := k + rng.IntN(universe-k)
			pool[k], pool[j] = pool[j], pool[k]
		}
		sample := make([]rune, n)
		copy(sample, pool[:n])
		samples[i] = sample
	}
	return samples
}

func (h *Harness) sample(ctx context.Context, f face.Face, codepoints []rune, seed int64, nSamples int) ([]costmodel.Sample, error) {
	samples := drawSamples(codepoints, seed, nSamples)

	progress := h.progress()
	progress.Start(nSamples)

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	type result struct {
		n     int
		bytes int
		err   error
	}
	results := make(chan result, len(samples))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, s := range samples {
		wg.Add(1)
		go func(s []rune) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- result{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				results <- result{err: ctx.Err()}
				return
			default:
			}

			compressed, err := h.Subsetter.Subset(ctx, f, s)
			if err != nil {
				results <- result{err: fmt.Errorf("%w: %v", face.ErrExternalSubset, err)}
				return
			}

			mu.Lock()
			progress.Tick()
			mu.Unlock()

			results <- result{n: len(s), bytes: len(compressed)}
		}(s)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	raw := make([]costmodel.Sample, 0, len(samples))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		raw = append(raw, costmodel.Sample{N: res.n, Bytes: float64(res.bytes)})
	}
	progress.Complete()

	sort.Slice(raw, func(i, j int) bool { return raw[i].N < raw[j].N })
	return raw, nil
}
