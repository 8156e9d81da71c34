package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// line is one non-blank line of horses.jsonl with its 1-based number.
type line struct {
	num  int
	data []byte
}

// readLines returns the non-blank lines of the document file. There is no
// length limit: a horse carries its picture inline as a data URI, and any
// document that could be written must load again.
func readLines(path string) ([]line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []line
	r := bufio.NewReader(f)
	for num := 1; ; num++ {
		data, err := r.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
			lines = append(lines, line{num: num, data: trimmed})
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
}

// writeLines replaces the document file with docs, one per line. The new
// content goes to a temp file in the same directory, is synced, and is
// renamed over path; on any error the old file is untouched.
func writeLines(path string, docs [][]byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".horses-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, doc := range docs {
		if _, err = w.Write(doc); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
		if err = w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
