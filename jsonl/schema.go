package jsonl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/byu-imaal/dns-cookies-pam21/types"
)

// ErrLineFieldCollision flags input whose records already carry the field
// name reserved for injected line numbers.
var ErrLineFieldCollision = errors.New(`records already contain a "` +
	constants.LineField + `" field; rerun with --no-line-count`)

// StripWrapper cuts non-JSON wrapper bytes off a line: everything before
// the first '{' and after the last '}' is dropped. Lines without braces
// come back unchanged and fail JSON decoding downstream.
func StripWrapper(line []byte) []byte {
	start := bytes.IndexByte(line, '{')
	end := bytes.LastIndexByte(line, '}')
	if start == -1 || end == -1 || end < start {
		return line
	}
	return line[start : end+1]
}

// ProbeSchema infers the stream schema from the first record's top-level
// keys, preserving document order. The probe only inspects the line; the
// main pass still processes the first record as data.
func ProbeSchema(line []byte) (*types.Schema, error) {
	var fields []string
	err := jsonparser.ObjectEach(StripWrapper(line), func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		fields = append(fields, string(key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema from first line: %s", err)
	}
	return types.NewSchema(fields), nil
}

// WriteKeyTree prints the nested key structure of the record to w, keys in
// document order, two spaces of indent per nesting level.
func WriteKeyTree(w io.Writer, line []byte) error {
	return writeKeys(w, StripWrapper(line), 0)
}

func writeKeys(w io.Writer, data []byte, depth int) error {
	return jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), key); err != nil {
			return err
		}
		if dataType == jsonparser.Object {
			return writeKeys(w, value, depth+1)
		}
		return nil
	})
}
