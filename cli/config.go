package cli

import (
	"fmt"
	"strings"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/byu-imaal/dns-cookies-pam21/utils"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
	"github.com/hashicorp/go-multierror"
)

// Mode is the top-level behavior of one run.
type Mode string

const (
	ModeKeys   Mode = "keys"
	ModeCount  Mode = "count"
	ModeOutput Mode = "output"
)

// Config is the fully resolved setup for one run, built from the command
// line and validated before any component touches the input.
type Config struct {
	InputPath   string   `json:"input_path" validate:"required"`
	Mode        Mode     `json:"mode" validate:"required,oneof=keys count output"`
	Output      string   `json:"output"`
	Filter      string   `json:"filter"`
	UniqueField string   `json:"unique_field"`
	WriteFields []string `json:"write_fields"`
	FoldCase    bool     `json:"fold_case"`
	NullGuard   bool     `json:"null_guard"`
	JSONLines   bool     `json:"json_lines"`
	CSVHeader   bool     `json:"csv_header"`
	LineNumbers bool     `json:"line_numbers"`
}

// resolveMode picks the single top-level mode. Exactly one of the keys,
// count and output selections must be active; projecting fields with
// -w/--write counts as selecting output.
func resolveMode(keys, count, output bool) (Mode, error) {
	selected := 0
	mode := Mode("")
	if keys {
		selected++
		mode = ModeKeys
	}
	if count {
		selected++
		mode = ModeCount
	}
	if output {
		selected++
		mode = ModeOutput
	}
	switch {
	case selected == 0:
		return "", fmt.Errorf("exactly one of -k/--keys, -c/--count or -o/--output is required")
	case selected > 1:
		return "", fmt.Errorf("flags -k/--keys, -c/--count and -o/--output are mutually exclusive")
	}
	return mode, nil
}

// Validate checks the flag combinations that have to be rejected before
// any input is read.
func (c *Config) Validate() error {
	if c.JSONLines && c.CSVHeader {
		return fmt.Errorf("cannot combine -j/--json with --csv-header")
	}
	return utils.Validate(c)
}

// warnIgnored calls out flags that parse fine but have no effect in the
// selected mode.
func (c *Config) warnIgnored() {
	switch c.Mode {
	case ModeKeys:
		if c.Filter != "" || c.UniqueField != "" || len(c.WriteFields) > 0 || c.FoldCase {
			logger.Warnf("key listing ignores filter, uniqueness and projection flags")
		}
	case ModeCount:
		if len(c.WriteFields) > 0 || c.JSONLines || c.CSVHeader {
			logger.Warnf("count mode ignores projection and format flags")
		}
	}
}

// ResolveFields validates the projection and uniqueness fields against the
// probed schema and fills in the default projection. The synthetic line
// number field is a valid reference while numbering is on. Every invalid
// field is reported, not just the first.
func (c *Config) ResolveFields(schema *types.Schema) error {
	valid := schema.Fields()
	if c.LineNumbers {
		valid = append(valid, constants.LineField)
	}

	var invalid error
	check := func(field string) {
		_, found := utils.ArrayContains(valid, func(elem string) bool { return elem == field })
		if !found {
			invalid = multierror.Append(invalid,
				fmt.Errorf("unknown field %q; valid fields are: %s", field, strings.Join(valid, ", ")))
		}
	}
	for _, field := range c.WriteFields {
		check(field)
	}
	if c.UniqueField != "" {
		check(c.UniqueField)
	}
	if invalid != nil {
		return invalid
	}

	if c.Mode == ModeOutput && len(c.WriteFields) == 0 {
		c.WriteFields = schema.Fields()
	}
	return nil
}
