package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/transform"
)

// DefaultWriter writes SRT files in a fixed text encoding
type DefaultWriter struct {
	encoding string
}

// NewWriter creates a new subtitle file writer for the given charset label
func NewWriter(encoding string) Writer {
	return &DefaultWriter{encoding: encoding}
}

// Write writes subtitle file to specified path. Entries are renumbered from 1
// and their text is written as is.
func (w *DefaultWriter) Write(path string, subtitle *File) error {
	if subtitle == nil {
		return fmt.Errorf("subtitle data is empty")
	}

	enc, err := lookupEncoding(w.encoding)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := transform.NewWriter(file, outputEncoder(enc))
	if err := writeSRT(encoder, subtitle); err != nil {
		file.Close()
		return fmt.Errorf("failed to write subtitle file %s: %w", path, err)
	}
	// flushes bytes still held by the encoder
	if err := encoder.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode subtitle file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close subtitle file %s: %w", path, err)
	}
	return nil
}

func writeSRT(dst io.Writer, f *File) error {
	writer := bufio.NewWriter(dst)
	for i, line := range f.Lines {
		if i > 0 {
			writer.WriteString("\n")
		}
		fmt.Fprintf(writer, "%d\n%s --> %s\n", i+1, formatTiming(line.StartTime), formatTiming(line.EndTime))
		for _, row := range strings.Split(line.Text, "\n") {
			// a blank row would end the entry early
			if strings.TrimSpace(row) == "" {
				continue
			}
			writer.WriteString(row)
			writer.WriteString("\n")
		}
	}
	return writer.Flush()
}

// formatTiming renders d as HH:MM:SS,mmm
func formatTiming(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
