package cli

import (
	"errors"
	"strings"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/byu-imaal/dns-cookies-pam21/expr"
	"github.com/byu-imaal/dns-cookies-pam21/jsonl"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	keysMode     bool
	countMode    bool
	outputTarget string
	filterTokens []string
	uniqueField  string
	ignoreCase   bool
	noneFilter   bool
	writeFields  []string
	jsonOutput   bool
	csvHeader    bool
	noLineCount  bool
)

// RootCmd is the jsonl command: filter, project and count JSON Lines
// records from one input file.
var RootCmd = &cobra.Command{
	Use:   "jsonl <input-file>",
	Short: "query line-delimited JSON files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.SetDefault(constants.LogLevelKey, "info")
		viper.SetEnvPrefix(constants.EnvPrefix)
		viper.AutomaticEnv()
		logger.Init()

		config, err := buildConfig(cmd, args[0])
		if err != nil {
			return err
		}
		return run(config)
	},
}

func init() {
	RootCmd.Flags().BoolVarP(&keysMode, "keys", "k", false, "Print the first record's keys as an indented tree and exit")
	RootCmd.Flags().BoolVarP(&countMode, "count", "c", false, "Report total and matched line counts with a percentage")
	RootCmd.Flags().StringVarP(&outputTarget, "output", "o", "", "Write passing records; bare -o or 'stdout' selects standard output, a file path (-o=path) streams to that file")
	RootCmd.Flags().StringArrayVarP(&filterTokens, "filter", "f", nil, "Filter expression; repeated values are joined with spaces")
	RootCmd.Flags().StringVarP(&uniqueField, "unique", "u", "", "Drop records whose value for this field is null or already seen")
	RootCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Lowercase every string field before filtering and output")
	RootCmd.Flags().BoolVarP(&noneFilter, "none-filter", "n", false, "Require every field referenced by the filter to be non-null")
	RootCmd.Flags().StringSliceVarP(&writeFields, "write", "w", nil, "Ordered fields to project; implies output to stdout when -o is absent")
	RootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Write JSON Lines instead of CSV")
	RootCmd.Flags().BoolVar(&csvHeader, "csv-header", false, "Write a CSV header row before any records")
	RootCmd.Flags().BoolVar(&noLineCount, "no-line-count", false, "Do not inject the line number field into records")
	RootCmd.Flags().Lookup("output").NoOptDefVal = constants.StdoutTarget

	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}

// buildConfig assembles and validates the run configuration from the
// parsed flags.
func buildConfig(cmd *cobra.Command, inputPath string) (*Config, error) {
	outputSelected := cmd.Flags().Changed("output")
	mode, err := resolveMode(keysMode, countMode, outputSelected || len(writeFields) > 0)
	if err != nil {
		return nil, err
	}
	if mode == ModeOutput && !outputSelected {
		logger.Infof("-w/--write given without -o/--output; writing to stdout")
	}

	config := &Config{
		InputPath:   inputPath,
		Mode:        mode,
		Output:      outputTarget,
		Filter:      strings.Join(filterTokens, " "),
		UniqueField: uniqueField,
		WriteFields: writeFields,
		FoldCase:    ignoreCase,
		NullGuard:   noneFilter,
		JSONLines:   jsonOutput,
		CSVHeader:   csvHeader,
		LineNumbers: !noLineCount,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.warnIgnored()
	return config, nil
}

// exitError pins a specific process exit code onto an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// Execute runs the tool and returns the process exit code: 0 on success,
// 2 for filter failures, 4 for a line number field collision and 1 for
// every other error.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}
	var evalErr *expr.EvalError
	if errors.As(err, &evalErr) {
		// the processor already streamed the full diagnostics
		return 2
	}
	logger.Error(err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if errors.Is(err, jsonl.ErrLineFieldCollision) {
		return 4
	}
	return 1
}
