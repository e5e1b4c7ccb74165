// Package script loads the canonical dialogue script.
//
// A script is a plain text file with one line of dialogue per non-empty text
// line. Blank lines are ignored; line numbers are assigned by 1-based
// position among the non-empty lines and define the final video order.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"stitch/internal/services"
)

// Line is a single script line. Lines are immutable once loaded; Number is
// unique and dense across the loaded script, starting at 1.
type Line struct {
	Number int
	Text   string
}

// Load reads a script file into its ordered lines.
func Load(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "script", "load", path, err)
		}
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads script lines from r, numbering non-empty lines from 1.
func Parse(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []Line
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: len(lines) + 1, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}
