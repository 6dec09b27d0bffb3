package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// timingPattern matches an SRT timing row such as "00:02:16,612 --> 00:02:19,376".
// A dot is accepted as millisecond separator and trailing coordinates are ignored.
var timingPattern = regexp.MustCompile(`^\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`)

// DefaultReader reads SRT files in a fixed text encoding
type DefaultReader struct {
	encoding string
}

// NewReader creates a new subtitle file reader for the given charset label
func NewReader(encoding string) Reader {
	return &DefaultReader{
		encoding: encoding,
	}
}

// Read parses the subtitle file at path. The content is parsed as SRT
// whatever the file suffix is. Caption bodies are kept verbatim, markup included.
func (r *DefaultReader) Read(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("subtitle file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer file.Close()

	return r.read(file, path)
}

func (r *DefaultReader) read(src io.Reader, path string) (*File, error) {
	enc, err := lookupEncoding(r.encoding)
	if err != nil {
		return nil, err
	}

	lines, err := parseSRT(transform.NewReader(src, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file %s: %w", path, err)
	}

	return &File{
		Path:     path,
		Lines:    lines,
		Language: detectLanguage(lines),
		Format:   "SRT",
	}, nil
}

func parseSRT(src io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := Line{}
	state := "index" // possible values: "index", "time", "text"
	var textLines []string
	lineNo := 0

	flush := func() {
		current.Text = strings.Join(textLines, "\n")
		lines = append(lines, current)
		current = Line{}
		textLines = nil
	}

	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)

		switch state {
		case "index":
			if trimmed == "" {
				continue
			}
			if index, err := strconv.Atoi(trimmed); err == nil {
				current.Index = index
				state = "time"
				continue
			}
			// some files omit the counter row
			if start, end, ok := parseTiming(trimmed); ok {
				current.Index = len(lines) + 1
				current.StartTime, current.EndTime = start, end
				state = "text"
				continue
			}
			return nil, fmt.Errorf("line %d: expected subtitle index, got %q", lineNo, trimmed)

		case "time":
			if trimmed == "" {
				continue
			}
			start, end, ok := parseTiming(trimmed)
			if !ok {
				return nil, fmt.Errorf("line %d: invalid time format: %s", lineNo, trimmed)
			}
			current.StartTime, current.EndTime = start, end
			state = "text"

		case "text":
			if trimmed == "" {
				flush()
				state = "index"
				continue
			}
			textLines = append(textLines, strings.TrimRight(raw, " \t"))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	switch state {
	case "text":
		flush()
	case "time":
		return nil, fmt.Errorf("line %d: subtitle %d has no timing", lineNo, current.Index)
	}
	return lines, nil
}

func parseTiming(row string) (time.Duration, time.Duration, bool) {
	m := timingPattern.FindStringSubmatch(row)
	if m == nil {
		return 0, 0, false
	}
	return clock(m[1], m[2], m[3], m[4]), clock(m[5], m[6], m[7], m[8]), true
}

func clock(hours, minutes, seconds, millis string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	// "5" after the separator means 500ms
	for len(millis) < 3 {
		millis += "0"
	}
	ms, _ := strconv.Atoi(millis)

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}

// detectLanguage returns the most common language among the lines
func detectLanguage(lines []Line) language.Tag {
	if len(lines) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, line := range lines {
		info := whatlanggo.Detect(line.Text)
		if !info.IsReliable() {
			continue
		}
		langMap[info.Lang.Iso6391()]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount || (count == topCount && lang < topLang) {
			topLang = lang
			topCount = count
		}
	}
	if topLang == "" {
		return language.Und
	}

	tag, err := language.Parse(topLang)
	if err != nil {
		return language.Und
	}
	return tag
}
