package domain

import "sort"

// Segment is a timestamped span of transcript text. Times are relative to
// the chunk until merged, then relative to the whole audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ChunkResult holds one chunk's segments in chunk-local time together with
// the chunk's offset into the full audio.
type ChunkResult struct {
	Offset   float64
	Segments []Segment
}

// Transcription is the speech-to-text response for one audio file.
type Transcription struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Theme is one chapter produced by transcript analysis.
type Theme struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Title         string  `json:"title"`
	Summary       string  `json:"summary"`
	InterestScore float64 `json:"interestScore"`
}

// MergeSegments shifts every chunk's segments to global time, orders them by
// start and drops segments that repeat speech from the overlapping tail of
// the previous chunk. A candidate is a duplicate when it starts at or before
// last.End - overlap/2. Duplicates are dropped whole, never trimmed.
//
// Distinct speech starting inside that window is lost as well; the merge
// does not align text across chunk boundaries.
func MergeSegments(results []ChunkResult, overlap float64) []Segment {
	type placed struct {
		Segment
		offset float64
	}

	var all []placed
	for _, r := range results {
		for _, s := range r.Segments {
			all = append(all, placed{
				Segment: Segment{Start: s.Start + r.Offset, End: s.End + r.Offset, Text: s.Text},
				offset:  r.Offset,
			})
		}
	}

	// Ties keep chunk order (by offset) and, within a chunk, response order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].offset < all[j].offset
	})

	threshold := overlap * 0.5
	merged := make([]Segment, 0, len(all))
	for _, s := range all {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End-threshold {
			continue
		}
		merged = append(merged, s.Segment)
	}
	return merged
}
