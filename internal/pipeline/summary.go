package pipeline

import (
	"log/slog"
	"sort"
)

// FileError records one per-file failure; failures never abort the batch.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Summary is the end-of-run accounting: per-format processed counts, the
// skip counters, and the literal error list.
type Summary struct {
	Processed map[string]int `json:"processed"`
	Skipped   int            `json:"skipped"`
	NoTables  int            `json:"noTables"`
	Errored   int            `json:"errored"`
	Documents int            `json:"documents"`
	Grids     int            `json:"grids"`
	Errors    []FileError    `json:"errors,omitempty"`
}

func newSummary() *Summary {
	return &Summary{Processed: make(map[string]int)}
}

func (s *Summary) addError(path string, err error) {
	s.Errored++
	s.Errors = append(s.Errors, FileError{Path: path, Message: err.Error()})
}

// Report writes the run summary to the log, one line per error.
func (s *Summary) Report(log *slog.Logger) {
	formats := make([]string, 0, len(s.Processed))
	for f := range s.Processed {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		log.Info("format processed", "format", f, "files", s.Processed[f])
	}
	log.Info("run complete",
		"documents", s.Documents,
		"grids", s.Grids,
		"skipped", s.Skipped,
		"no_tables", s.NoTables,
		"errored", s.Errored,
	)
	for _, e := range s.Errors {
		log.Error("file failed", "path", e.Path, "error", e.Message)
	}
}
