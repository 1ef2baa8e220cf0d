package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/johnlanda/kickstart/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NoLogFile disables the JSON log file when used as Options.LogFile
const NoLogFile = "-"

// Options controls where log output goes.
type Options struct {
	// Verbosity maps -v flags to levels: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int

	// Console receives human readable output. Defaults to os.Stderr.
	Console io.Writer

	// LogFile is appended to as JSON lines. Empty means the state dir log,
	// NoLogFile turns the file off.
	LogFile string
}

// SetupLogger configures the global logger for the given verbosity, logging
// to stderr and to kickstart.log in the state directory.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup configures the global logger from opts. A log file that cannot be
// opened is reported and skipped; generation never fails because of logging.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
	}}

	logPath := opts.LogFile
	if logPath == "" {
		logPath = paths.New().LogFile()
	}

	var fileErr error
	if logPath != NoLogFile {
		var f *os.File
		f, fileErr = openLogFile(logPath)
		if fileErr == nil {
			writers = append(writers, f)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logPath).Msg("Logger initialized")
}

// LevelFor returns the zerolog level for a -v count.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a logger tagged with the component name, e.g.
// "generate.walker".
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// LogOperationStart logs the start of an operation at debug level and
// returns a func that logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
