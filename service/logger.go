package service

import (
	"io"
	"os"
	"strings"

	"github.com/activebook/fitbot/internal/ui"
	log "github.com/sirupsen/logrus"
)

var (
	logger          *log.Logger
	indicatorActive bool // indicator was running before the log line
)

func NewLogger() *log.Logger {
	logger = log.New()
	return logger
}

func GetLogger() *log.Logger {
	if logger == nil {
		logger = NewLogger()
	}
	return logger
}

func InitLogger() {
	l := GetLogger()
	l.SetOutput(os.Stderr)
	l.SetLevel(log.InfoLevel)
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: true,
	})
}

// SetLogLevel applies a level name such as "debug" or "warn".
// Unknown names leave the level unchanged.
func SetLogLevel(level string) {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		Warnf("Unknown log level '%s', keeping %s", level, GetLogger().GetLevel())
		return
	}
	GetLogger().SetLevel(lvl)
}

// SetLogOutput redirects log lines, e.g. away from an alt-screen TUI.
func SetLogOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// UseServerFormat switches to timestamped output for long-running processes.
func UseServerFormat() {
	GetLogger().SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

func BeforeLog() {
	if logger != nil {
		indicatorActive = ui.GetIndicator().IsActive()
		ui.GetIndicator().Stop()
	}
}

func AfterLog() {
	if logger != nil {
		if indicatorActive {
			ui.GetIndicator().Start("")
		}
	}
}

func Infof(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Infof(format, args...)
		AfterLog()
	}
}

func Debugf(format string, args ...interface{}) {
	if logger != nil {
		if logger.Level == log.DebugLevel {
			BeforeLog()
		}
		logger.Debugf(format, args...)
		if logger.Level == log.DebugLevel {
			AfterLog()
		}
	}
}

func Warnf(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Warnf(format, args...)
		AfterLog()
	}
}

func Errorf(format string, args ...interface{}) {
	if logger != nil {
		BeforeLog()
		logger.Errorf(format, args...)
		AfterLog()
	}
}

// WithFields returns an entry for structured request logging.
func WithFields(fields log.Fields) *log.Entry {
	return GetLogger().WithFields(fields)
}
