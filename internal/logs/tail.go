package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const pollInterval = 250 * time.Millisecond

// Tail returns the last limit lines of the file and the offset just past the
// final newline. A limit of zero or less returns every line. A missing file
// yields no lines and offset zero without an error.
func Tail(path string, limit int) ([]string, int64, error) {
	lines, offset, err := readFrom(path, 0)
	if err != nil {
		return nil, 0, err
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, offset, nil
}

// Follow polls the file for lines appended after offset and hands each batch
// to fn. It returns nil once ctx is cancelled. A file that shrinks under the
// offset, for example through rotation, is skipped to its new end.
func Follow(ctx context.Context, path string, offset int64, fn func(lines []string)) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if info, err := os.Stat(path); err == nil && info.Size() < offset {
			offset = info.Size()
		}

		lines, next, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			fn(lines)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// readFrom collects newline-terminated lines starting at offset and reports
// the offset just past the last newline consumed. A half-written final line
// stays pending until the writer finishes it. A missing file returns the
// offset unchanged.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, offset, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log: %w", err)
	}

	var lines []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		switch {
		case err == nil:
			lines = append(lines, strings.TrimSuffix(line, "\n"))
			offset += int64(len(line))
		case errors.Is(err, io.EOF):
			return lines, offset, nil
		default:
			return nil, 0, fmt.Errorf("read log: %w", err)
		}
	}
}
