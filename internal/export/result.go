package export

import "github.com/yaklabco/folio/pkg/fsutil"

// FileOutcome reports what happened to one output file.
type FileOutcome struct {
	// File is the path relative to the output directory.
	File string

	// Path is the page path, or empty for assets.
	Path string

	Outcome fsutil.Outcome

	// Error is set if the file could not be produced.
	Error error
}

// Stats counts outcomes.
type Stats struct {
	Written   int
	Unchanged int
	Failed    int
}

// Total is the number of files attempted.
func (s Stats) Total() int {
	return s.Written + s.Unchanged + s.Failed
}

// Result is the outcome of an export.
type Result struct {
	// Files are in plan order: pages, the not-found page, then assets.
	Files []FileOutcome

	Stats Stats
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.Failed++
	case outcome.Outcome == fsutil.Written:
		r.Stats.Written++
	default:
		r.Stats.Unchanged++
	}
}
