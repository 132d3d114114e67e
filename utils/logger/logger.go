package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/byu-imaal/dns-cookies-pam21/constants"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger zerolog.Logger

func init() {
	// keep the logger usable for failures occurring before Init
	logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Init configures the process-wide logger. The level comes from the
// log_level config key and a rotated file sink is added when log_dir is
// set. Records and reports go to stdout untouched; all logging stays on
// stderr so the two streams can be piped independently.
func Init() {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(viper.GetString(constants.LogLevelKey)); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	writers := []io.Writer{consoleWriter()}
	if dir := viper.GetString(constants.LogDirKey); dir != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(dir, "jsonl.log"),
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func Debug(v ...any) {
	logger.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}

func Info(v ...any) {
	logger.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

func Warn(v ...any) {
	logger.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

func Error(v ...any) {
	logger.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

// Fatal logs the message and exits with status 1.
func Fatal(v ...any) {
	logger.Fatal().Msg(fmt.Sprint(v...))
}

func Fatalf(format string, v ...any) {
	logger.Fatal().Msgf(format, v...)
}
