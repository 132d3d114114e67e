package jsonl

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/byu-imaal/dns-cookies-pam21/expr"
	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
)

// RecordSink consumes records that pass the pipeline.
type RecordSink interface {
	Write(rec types.Record) error
}

// Counters accumulates scan totals for one run.
type Counters struct {
	Total   int64
	Matched int64
}

// Percentage is the matched share of all data lines.
func (c Counters) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Matched) * 100 / float64(c.Total)
}

// Processor drives the per-record pipeline over a JSON Lines stream in two
// passes: a counting pre-pass for progress totals, then the record pass.
// Everything runs single threaded; emitted records keep input order. Each
// record flows parse, line-number injection, case folding, filter,
// uniqueness, sink, in that order.
type Processor struct {
	Filter      *expr.Filter
	Sink        RecordSink     // nil when only counting
	Unique      *UniqueTracker // nil disables uniqueness
	LineNumbers bool
	FoldCase    bool
}

// Run scans input from the start and applies the pipeline to every data
// line. A filter evaluation failure logs its diagnostics, aborts the run
// and surfaces as *expr.EvalError; whatever the sink already wrote stays
// written.
func (p *Processor) Run(input io.ReadSeeker) (Counters, error) {
	counters := Counters{}

	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return counters, fmt.Errorf("failed to rewind input: %s", err)
	}
	total, err := CountLines(input)
	if err != nil {
		return counters, fmt.Errorf("failed to count input lines: %s", err)
	}
	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return counters, fmt.Errorf("failed to rewind input: %s", err)
	}

	progress := NewProgress(total)
	defer progress.Finish()

	scanner := NewLineScanner(input)
	var lineNo int64
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		lineNo++
		counters.Total++
		progress.Tick()

		rec, err := ParseRecord(raw)
		if err != nil {
			return counters, fmt.Errorf("line %d: invalid JSON record: %s", lineNo, err)
		}
		if p.LineNumbers {
			rec[constants.LineField] = lineNo
		}
		if p.FoldCase {
			rec.FoldStrings()
		}

		matched, err := p.Filter.Match(rec)
		if err != nil {
			p.reportEvalFailure(err, raw, lineNo)
			return counters, err
		}
		if !matched {
			continue
		}

		if p.Unique != nil {
			fresh, err := p.Unique.Observe(rec)
			if err != nil {
				return counters, fmt.Errorf("line %d: %s", lineNo, err)
			}
			if !fresh {
				continue
			}
		}

		counters.Matched++
		if p.Sink != nil {
			if err := p.Sink.Write(rec); err != nil {
				return counters, fmt.Errorf("line %d: failed to write record: %s", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return counters, fmt.Errorf("failed reading input: %s", err)
	}
	return counters, nil
}

// reportEvalFailure logs the fail-fast diagnostics: the failure itself,
// the canonical filter and the offending raw line, plus a none-filter hint
// when the failure traces back to a null value.
func (p *Processor) reportEvalFailure(err error, raw []byte, lineNo int64) {
	logger.Errorf("filter evaluation failed on line %d: %s", lineNo, err)
	logger.Errorf("filter: %s", p.Filter.String())
	logger.Errorf("offending line: %s", string(raw))

	var evalErr *expr.EvalError
	if errors.As(err, &evalErr) && evalErr.NullRelated {
		logger.Error("hint: rerun with -n/--none-filter to skip records with null values in filtered fields")
	}
}
