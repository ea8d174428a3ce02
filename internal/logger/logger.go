package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

const maxLogSize = 10 * 1024 * 1024

var (
	logFile *os.File
	logPath string
)

// Options controls logger setup
type Options struct {
	Level string // debug|info|warn|error
	File  string // empty means stderr only
}

// Init configures the global logrus logger
func Init(opts Options) error {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if opts.File == "" {
		log.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Rotate if file is too large
	if info, err := os.Stat(opts.File); err == nil && info.Size() > maxLogSize {
		backupPath := fmt.Sprintf("%s.%d", opts.File, time.Now().Unix())
		_ = os.Rename(opts.File, backupPath)
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	Close()
	logFile = f
	logPath = opts.File
	log.SetOutput(io.MultiWriter(os.Stderr, f))

	log.Infof("Logger initialized, log file: %s", logPath)
	return nil
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	log.Errorf("[PANIC] %v\n%s", r, debug.Stack())
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}
