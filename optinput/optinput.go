// Package optinput carries the JSON-shaped input data model: a set of
// named fonts (each possibly shared by several CSS-distinguished styles)
// and a set of page "posts", each with per-style codepoint demand. It
// bridges that data model to partition.BuildInstance's plain
// (nPartitions, nItems, []Request) shape.
package optinput

import (
	"sort"

	"github.com/ma-chengyuan/optift/partition"
)

// FontSpec is one CSS-distinguished style sharing a physical font file:
// the @font-face declaration's src path plus whatever CSS properties
// (weight, style, etc.) select it.
type FontSpec struct {
	Path string            `json:"path"`
	CSS  map[string]string `json:"css"`
}

// Post is one page's weighted demand: a relative weight (e.g. page view
// count) and, per style name, the literal text rendered in that style.
type Post struct {
	Weight     float64           `json:"weight"`
	Codepoints map[string]string `json:"codepoints"`
}

// Input is the full optimizer input: named fonts and named posts.
type Input struct {
	Fonts map[string]FontSpec `json:"fonts"`
	Posts map[string]Post     `json:"posts"`
}

// UniqueFontPaths returns the distinct physical font file paths
// referenced by Fonts, mirroring Input::get_unique_font_paths.
func (in Input) UniqueFontPaths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, f := range in.Fonts {
		if !seen[f.Path] {
			seen[f.Path] = true
			paths = append(paths, f.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

// StylesForFontPath returns the sorted style names whose FontSpec.Path
// equals fontPath, mirroring Input::get_styles_with_font_path.
func (in Input) StylesForFontPath(fontPath string) []string {
	var styles []string
	for style, f := range in.Fonts {
		if f.Path == fontPath {
			styles = append(styles, style)
		}
	}
	sort.Strings(styles)
	return styles
}

// CodepointsForFontPath returns the sorted, deduplicated set of
// codepoints used by any post in any style backed by fontPath, mirroring
// Input::get_all_codepoints_sorted.
func (in Input) CodepointsForFontPath(fontPath string) []rune {
	styles := in.StylesForFontPath(fontPath)
	set := make(map[rune]bool)
	for _, post := range in.Posts {
		for _, style := range styles {
			text, ok := post.Codepoints[style]
			if !ok {
				continue
			}
			for _, c := range text {
				set[c] = true
			}
		}
	}
	out := make([]rune, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildRequests turns every post into one weighted partition.Request over
// item ids from itemOf (a codepoint -> item-id map, typically built from
// CodepointsForFontPath's output), mirroring create_partition_instance's
// per-post loop. Posts with no codepoints in any style of fontPath
// produce no request; partition.BuildInstance normalizes weights and
// drops empty requests on its own, so no normalization happens here.
func BuildRequests(input Input, fontPath string, itemOf map[rune]int) []partition.Request {
	styles := input.StylesForFontPath(fontPath)

	postNames := make([]string, 0, len(input.Posts))
	for name := range input.Posts {
		postNames = append(postNames, name)
	}
	sort.Strings(postNames)

	var requests []partition.Request
	for _, name := range postNames {
		post := input.Posts[name]
		items := make(map[int]bool)
		for _, style := range styles {
			text, ok := post.Codepoints[style]
			if !ok {
				continue
			}
			for _, c := range text {
				if item, ok := itemOf[c]; ok {
					items[item] = true
				}
			}
		}
		if len(items) == 0 {
			continue
		}
		ids := make([]int, 0, len(items))
		for item := range items {
			ids = append(ids, item)
		}
		sort.Ints(ids)
		requests = append(requests, partition.Request{Weight: post.Weight, Items: ids})
	}
	return requests
}
