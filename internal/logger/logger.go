package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message to the run log file and the console-worthy ones to the console
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	logFile       *os.File
	verbose       bool
	minLevel      Level
}

var globalLogger *Logger

// Init opens logFilePath for appending and routes console output to consoleOutput.
// With verbose, DEBUG lines reach the console too.
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	// Create log directory if it doesn't exist
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create loggers
	consoleLogger := log.New(consoleOutput, "", 0) // No prefix for clean console output
	fileLogger := log.New(logFile, "", log.LstdFlags)

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	globalLogger = &Logger{
		consoleLogger: consoleLogger,
		fileLogger:    fileLogger,
		logFile:       logFile,
		verbose:       verbose,
		minLevel:      minLevel,
	}

	// The file is appended to by every run into the same destination
	fileLogger.Printf("[RUN] ===== sheet-split started (pid %d) =====", os.Getpid())

	return nil
}

// Close closes the log file; later calls fall back to plain console output
func Close() {
	if globalLogger == nil {
		return
	}
	if globalLogger.logFile != nil {
		globalLogger.fileLogger.Printf("[RUN] ===== sheet-split finished =====")
		globalLogger.logFile.Close()
	}
	globalLogger = nil
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...any) {
	if globalLogger == nil {
		return
	}
	globalLogger.log(LevelDebug, format, args...)
}

// Info logs an info message (console + file)
func Info(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	globalLogger.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	globalLogger.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	globalLogger.log(LevelError, format, args...)
}

// log handles the actual logging logic
func (l *Logger) log(level Level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	// Always log to file with timestamp and level (regardless of minLevel)
	l.fileLogger.Printf("[%s] %s", level.String(), message)

	// Only log to console if level >= minLevel
	if level < l.minLevel {
		return
	}

	// Log to console based on level
	switch level {
	case LevelDebug:
		if l.verbose {
			l.consoleLogger.Printf("[DEBUG] %s", message)
		}
	case LevelInfo:
		l.consoleLogger.Printf("%s", message) // Clean output for INFO
	case LevelWarn:
		l.consoleLogger.Printf("⚠️  %s", message)
	case LevelError:
		l.consoleLogger.Printf("❌ %s", message)
	}
}

// Progress logs a per-group progress line (console + file)
// Kept apart from Info so the summary tally can be grepped from the log file
func Progress(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	message := fmt.Sprintf(format, args...)
	globalLogger.fileLogger.Printf("[PROGRESS] %s", message)
	globalLogger.consoleLogger.Printf("%s", message)
}

// LogGroupError logs a per-group failure (file only, not console)
// The console line for the group is printed by the caller's progress reporter
func LogGroupError(key string, err error, stage string) {
	if globalLogger == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf("[GROUP_ERROR] Key: %q, Stage: %s, Error: %v", key, stage, err)
	globalLogger.fileLogger.Printf("[%s] %s", timestamp, message)

	Debug("Group %q failed during %s: %v", key, stage, err)
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if globalLogger != nil && globalLogger.logFile != nil {
		return globalLogger.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	if globalLogger == nil {
		return false
	}
	return globalLogger.verbose
}
