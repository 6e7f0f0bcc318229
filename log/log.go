// Package log routes diagnostics through logrus once the configuration is loaded.
//
// Until Setup runs every call is discarded, which keeps library code and tests quiet.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// Setup configures output, formatter and level from the global configuration.
// Logs go to stderr unless logs.write asks for a dated file under where.Logs().
func Setup() error {
	logrus.SetOutput(os.Stderr)

	if viper.GetBool(key.LogsWrite) {
		path := filepath.Join(where.Logs(), fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
		f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
	}

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	enabled = true
	return nil
}

// WithFields returns a scoped entry. When logging is disabled the entry writes nowhere.
func WithFields(fields map[string]any) *logrus.Entry {
	if !enabled {
		return logrus.NewEntry(silent)
	}
	return logrus.WithFields(fields)
}

var silent = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}()

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...interface{}) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
