// Command optift loads a JSON font/post input, builds a cost model per
// font by sampling subsets through the built-in naiveSubsetter stand-in
// (see subsetter.go), solves a partition of each font's
// codepoints, and prints a report of the resulting groups. Stylesheet/CSS
// emission, real WOFF2 encoding, and reference comparison against an
// external subsetting service are out of scope.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ma-chengyuan/optift/face"
	"github.com/ma-chengyuan/optift/observability"
	"github.com/ma-chengyuan/optift/optinput"
	"github.com/ma-chengyuan/optift/partition"
	"github.com/ma-chengyuan/optift/report"
	"github.com/ma-chengyuan/optift/sampler"
)

type options struct {
	inputPath   string
	outputPath  string
	nPartitions int
	seed        int64
	nSamples    int
	cacheDir    string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "optift: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "optift: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: optift [flags] -input input.json\n")
		flag.PrintDefaults()
	}
	input := flag.String("input", "", "Path to the JSON input (fonts + posts)")
	output := flag.String("output", "", "Path to write the JSON report to (default: stdout)")
	nPartitions := flag.Int("partitions", 4, "Number of subsets to partition each font's codepoints into")
	seed := flag.Int64("seed", 42, "Seed for the cost model sample harness's RNG")
	nSamples := flag.Int("samples", 100, "Number of samples to take when fitting a font's cost model")
	cacheDir := flag.String("cache-dir", "", "Directory for cost model sample caches (default: system temp dir)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return options{}, fmt.Errorf("missing -input")
	}
	opts.inputPath = *input
	opts.outputPath = *output
	opts.nPartitions = *nPartitions
	opts.seed = *seed
	opts.nSamples = *nSamples
	opts.cacheDir = *cacheDir
	return opts, nil
}

type fontReport struct {
	Path   string         `json:"path"`
	Groups []report.Group `json:"groups"`
}

func run(opts options) error {
	log := observability.NewStd(slog.Default())

	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input optinput.Input
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	ctx := context.Background()
	harness := &sampler.Harness{
		Subsetter: naiveSubsetter{},
		Logger:    log,
		CacheDir:  opts.cacheDir,
	}

	var reports []fontReport
	for _, fontPath := range input.UniqueFontPaths() {
		rep, err := processFont(ctx, harness, input, fontPath, opts)
		if err != nil {
			return fmt.Errorf("process font %q: %w", fontPath, err)
		}
		reports = append(reports, rep)
	}

	return emitReports(opts.outputPath, reports)
}

func processFont(ctx context.Context, harness *sampler.Harness, input optinput.Input, fontPath string, opts options) (fontReport, error) {
	f, err := face.LoadFile(fontPath)
	if err != nil {
		return fontReport{}, fmt.Errorf("load font: %w", err)
	}

	codepoints := input.CodepointsForFontPath(fontPath)
	if len(codepoints) == 0 {
		return fontReport{Path: fontPath}, nil
	}

	itemOf := make(map[rune]int, len(codepoints))
	for i, c := range codepoints {
		itemOf[c] = i
	}

	model, err := harness.BuildCostModel(ctx, f, codepoints, opts.seed, opts.nSamples)
	if err != nil {
		return fontReport{}, fmt.Errorf("build cost model: %w", err)
	}

	requests := optinput.BuildRequests(input, fontPath, itemOf)
	inst, err := partition.BuildInstance(opts.nPartitions, len(codepoints), requests, model)
	if err != nil {
		return fontReport{}, fmt.Errorf("build partition instance: %w", err)
	}

	baseline := partition.SolveBaseline(inst)
	soln, err := partition.SolveHeuristic(inst, baseline)
	if err != nil {
		return fontReport{}, fmt.Errorf("solve partition: %w", err)
	}

	rep := report.BuildReport(soln, codepoints)
	return fontReport{Path: fontPath, Groups: rep.Groups}, nil
}

func emitReports(outputPath string, reports []fontReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
