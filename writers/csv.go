package writers

import (
	"fmt"
	"io"
	"strings"

	"github.com/byu-imaal/dns-cookies-pam21/types"
)

// Separator joins the cells of a CSV row.
const Separator = ", "

// CSV renders records as comma-and-space separated rows in projection
// order. Values are written raw: no quoting or escaping is applied, so a
// value containing the separator corrupts its row. Downstream tooling
// built against this format depends on the exact bytes, so the limitation
// is kept rather than fixed.
type CSV struct {
	w      io.Writer
	fields []string
}

// NewCSV builds a CSV sink over w projecting fields in order. With header
// set, a row naming the columns is written immediately, before any
// records.
func NewCSV(w io.Writer, fields []string, header bool) (*CSV, error) {
	c := &CSV{w: w, fields: fields}
	if header {
		if _, err := fmt.Fprintln(w, strings.Join(fields, Separator)); err != nil {
			return nil, fmt.Errorf("failed to write csv header: %s", err)
		}
	}
	return c, nil
}

func (c *CSV) Write(rec types.Record) error {
	cells := make([]string, 0, len(c.fields))
	for _, field := range c.fields {
		cell, err := rec.StringifiedValue(field)
		if err != nil {
			return fmt.Errorf("failed to render field %q: %s", field, err)
		}
		cells = append(cells, cell)
	}
	_, err := fmt.Fprintln(c.w, strings.Join(cells, Separator))
	return err
}
