package writers

import (
	"bytes"
	"fmt"
	"io"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/goccy/go-json"
)

// JSONLines renders each record as a single-line JSON object holding
// exactly the projected fields. Objects are built by hand because Go maps
// would shuffle the projection order.
type JSONLines struct {
	w      io.Writer
	fields []string
}

func NewJSONLines(w io.Writer, fields []string) *JSONLines {
	return &JSONLines{w: w, fields: fields}
}

func (j *JSONLines) Write(rec types.Record) error {
	var line bytes.Buffer
	line.WriteByte('{')
	for i, field := range j.fields {
		if i > 0 {
			line.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return fmt.Errorf("failed to encode field name %q: %s", field, err)
		}
		value, err := json.Marshal(rec[field])
		if err != nil {
			return fmt.Errorf("failed to encode field %q: %s", field, err)
		}
		line.Write(key)
		line.WriteByte(':')
		line.Write(value)
	}
	line.WriteString("}\n")
	_, err := j.w.Write(line.Bytes())
	return err
}
