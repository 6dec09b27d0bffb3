package subtitle

import (
	"time"

	"golang.org/x/text/language"
)

// Reader is the interface for reading subtitle files
type Reader interface {
	Read(path string) (*File, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, subtitle *File) error
}

// Line represents a single subtitle entry. Its position in File.Lines is
// its identity; Index is informational and renumbered on write.
type Line struct {
	Index     int           // subtitle index as found in the source
	StartTime time.Duration // start time
	EndTime   time.Duration // end time
	Text      string        // subtitle text, multiple rows joined by "\n"
}

// File represents subtitle file
type File struct {
	Path     string
	Lines    []Line
	Language language.Tag // detected content language
	Format   string       // e.g. SRT
}

// Texts returns the text of every line in order
func (f *File) Texts() []string {
	ret := make([]string, len(f.Lines))
	for i, line := range f.Lines {
		ret[i] = line.Text
	}
	return ret
}

// Clone returns a deep copy, so callers can rewrite text without touching the original
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	tmp := *f
	tmp.Lines = append([]Line(nil), f.Lines...)
	return &tmp
}
