package jsonl

import (
	"bufio"
	"bytes"
	"io"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/goccy/go-json"
)

// maxLineBytes bounds a single input line. Scan exports with large answer
// sections routinely blow past bufio's default token size.
const maxLineBytes = 16 * 1024 * 1024

// NewLineScanner returns a line scanner sized for long measurement lines.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// CountLines counts the data lines of r. Blank lines are not data.
func CountLines(r io.Reader) (int64, error) {
	scanner := NewLineScanner(r)
	var total int64
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		total++
	}
	return total, scanner.Err()
}

// ParseRecord decodes one line into a record, stripping wrapper bytes when
// the line does not already start with an object brace.
func ParseRecord(line []byte) (types.Record, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		trimmed = StripWrapper(trimmed)
	}
	var rec types.Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
