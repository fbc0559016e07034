package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Filter selects log lines.
type Filter func(line string) bool

// Read returns the last maxLines lines of the file at path that pass every
// filter, oldest first. A non-positive maxLines returns all matching lines.
// A missing file yields no lines.
func Read(path string, maxLines int, filters ...Filter) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var (
		ring  []string
		count int
		idx   int
	)
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !keep(line, filters) {
			continue
		}
		if maxLines <= 0 {
			ring = append(ring, line)
			count++
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines <= 0 || count < maxLines {
		return append([]string(nil), ring[:count]...), nil
	}
	lines := make([]string, count)
	for i := 0; i < count; i++ {
		lines[i] = ring[(idx+i)%maxLines]
	}
	return lines, nil
}

func keep(line string, filters []Filter) bool {
	for _, f := range filters {
		if !f(line) {
			return false
		}
	}
	return true
}

// Run keeps lines tagged with the given run_id.
func Run(id string) Filter {
	needle := "run_id=" + strings.TrimSpace(id)
	return func(line string) bool {
		for _, field := range strings.Fields(line) {
			if field == needle {
				return true
			}
		}
		return false
	}
}

// MinLevel keeps slog text lines whose level is at least threshold. Lines without
// a level field are dropped.
func MinLevel(threshold slog.Level) Filter {
	return func(line string) bool {
		lvl, ok := Level(line)
		return ok && lvl >= threshold
	}
}

// Level extracts the level=... field of a slog text line.
func Level(line string) (slog.Level, bool) {
	for _, field := range strings.Fields(line) {
		value, found := strings.CutPrefix(field, "level=")
		if !found {
			continue
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err != nil {
			return 0, false
		}
		return lvl, true
	}
	return 0, false
}

// RunID extracts the run_id=... field of a log line.
func RunID(line string) (string, bool) {
	for _, field := range strings.Fields(line) {
		if id, found := strings.CutPrefix(field, "run_id="); found && id != "" {
			return id, true
		}
	}
	return "", false
}

// LastRun returns the run id of the most recent tagged line in the file.
func LastRun(path string) (string, error) {
	lines, err := Read(path, 1, func(line string) bool {
		_, ok := RunID(line)
		return ok
	})
	if err != nil || len(lines) == 0 {
		return "", err
	}
	id, _ := RunID(lines[0])
	return id, nil
}
