package logging

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

type LogLevel int

const (
	LogLevelError   LogLevel = 0
	LogLevelWarning LogLevel = 1
	LogLevelInfo    LogLevel = 2
	LogLevelDebug   LogLevel = 3
)

var logLevel = LogLevelError

var prefixes = map[LogLevel]string{
	LogLevelError:   color.New(color.FgHiRed).Sprint("[ERROR]"),
	LogLevelWarning: color.New(color.FgYellow).Sprint("[WARN]"),
	LogLevelInfo:    color.New(color.FgHiGreen).Sprint("[INFO]"),
	LogLevelDebug:   color.New(color.FgCyan).Sprint("[DEBUG]"),
}

func SetLogLevel(newLevel int) {
	logLevel = LogLevel(newLevel)
}

// SetLogFile mirrors log output to the given file on top of stdout.
// Color codes are dropped so the file stays grep-able.
func SetLogFile(logFile io.Writer) {
	color.NoColor = true
	for level := range prefixes {
		prefixes[level] = plainPrefix(level)
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	logOutput := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(logOutput)
}

func plainPrefix(level LogLevel) string {
	switch level {
	case LogLevelError:
		return "[ERROR]"
	case LogLevelWarning:
		return "[WARN]"
	case LogLevelInfo:
		return "[INFO]"
	default:
		return "[DEBUG]"
	}
}

func Fatalln(args ...interface{}) {
	log.Fatalln(args...)
}

func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

func Fatal(args ...interface{}) {
	log.Fatal(args...)
}

func logf(level LogLevel, format string, args ...interface{}) {
	if logLevel >= level {
		log.Printf(prefixes[level]+" "+format, args...)
	}
}

func logln(level LogLevel, args ...interface{}) {
	if logLevel >= level {
		log.Println(append([]interface{}{prefixes[level]}, args...)...)
	}
}

func logp(level LogLevel, args ...interface{}) {
	if logLevel >= level {
		log.Print(append([]interface{}{prefixes[level] + " "}, args...)...)
	}
}

func Debugf(format string, args ...interface{}) { logf(LogLevelDebug, format, args...) }
func Infof(format string, args ...interface{})  { logf(LogLevelInfo, format, args...) }
func Warnf(format string, args ...interface{})  { logf(LogLevelWarning, format, args...) }
func Errorf(format string, args ...interface{}) { logf(LogLevelError, format, args...) }

func Debugln(args ...interface{}) { logln(LogLevelDebug, args...) }
func Infoln(args ...interface{})  { logln(LogLevelInfo, args...) }
func Warnln(args ...interface{})  { logln(LogLevelWarning, args...) }
func Errorln(args ...interface{}) { logln(LogLevelError, args...) }

func Debug(args ...interface{}) { logp(LogLevelDebug, args...) }
func Info(args ...interface{})  { logp(LogLevelInfo, args...) }
func Warn(args ...interface{})  { logp(LogLevelWarning, args...) }
func Error(args ...interface{}) { logp(LogLevelError, args...) }

func SetupTestLogs() {
	logLevel = LogLevelDebug
}
