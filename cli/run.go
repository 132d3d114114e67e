package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/byu-imaal/dns-cookies-pam21/expr"
	"github.com/byu-imaal/dns-cookies-pam21/jsonl"
	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
	"github.com/byu-imaal/dns-cookies-pam21/writers"
)

// runFields is the compile-time field set: the probed schema plus the
// synthetic line number field while numbering is on.
type runFields struct {
	schema *types.Schema
	line   bool
}

func (f runFields) Has(field string) bool {
	return f.schema.Has(field) || (f.line && field == constants.LineField)
}

// run executes one validated configuration against its input file.
func run(config *Config) error {
	input, err := os.Open(config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to open input %q: %s", config.InputPath, err)
	}
	defer input.Close()

	first, err := readFirstLine(input)
	if err != nil {
		return err
	}
	schema, err := jsonl.ProbeSchema(first)
	if err != nil {
		return err
	}

	if config.Mode == ModeKeys {
		return jsonl.WriteKeyTree(os.Stdout, first)
	}

	if config.LineNumbers && schema.Has(constants.LineField) {
		return jsonl.ErrLineFieldCollision
	}
	if err := config.ResolveFields(schema); err != nil {
		return err
	}

	filter, err := expr.Compile(config.Filter, runFields{schema: schema, line: config.LineNumbers}, config.NullGuard)
	if err != nil {
		return withExitCode(2, fmt.Errorf("invalid filter %q: %s", config.Filter, err))
	}
	if config.Filter != "" {
		logger.Debugf("compiled filter: %s", filter)
	}

	processor := &jsonl.Processor{
		Filter:      filter,
		LineNumbers: config.LineNumbers,
		FoldCase:    config.FoldCase,
	}
	if config.UniqueField != "" {
		processor.Unique = jsonl.NewUniqueTracker(config.UniqueField)
	}

	if config.Mode == ModeCount {
		counters, err := processor.Run(input)
		if err != nil {
			return err
		}
		fmt.Printf("matched %d of %d lines (%.2f%%)\n", counters.Matched, counters.Total, counters.Percentage())
		return nil
	}

	target, err := writers.OpenTarget(config.Output)
	if err != nil {
		return err
	}
	sink, err := newSink(config, target)
	if err != nil {
		_ = target.Close()
		return err
	}
	processor.Sink = sink

	counters, runErr := processor.Run(input)
	if closeErr := target.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close output: %s", closeErr)
	}
	if runErr != nil {
		return runErr
	}
	logger.Infof("wrote %d of %d records", counters.Matched, counters.Total)
	return nil
}

// readFirstLine returns a copy of the first non-blank line and rewinds the
// input so the passes that follow see the whole stream.
func readFirstLine(input io.ReadSeeker) ([]byte, error) {
	scanner := jsonl.NewLineScanner(input)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		first := append([]byte(nil), line...)
		if _, err := input.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind input: %s", err)
		}
		return first, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading input: %s", err)
	}
	return nil, fmt.Errorf("input contains no records")
}

func newSink(config *Config, target *writers.Target) (jsonl.RecordSink, error) {
	if config.JSONLines {
		return writers.NewJSONLines(target.Writer(), config.WriteFields), nil
	}
	sink, err := writers.NewCSV(target.Writer(), config.WriteFields, config.CSVHeader)
	if err != nil {
		return nil, err
	}
	return sink, nil
}
