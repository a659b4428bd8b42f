package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the global logger. The zero value logs at info level to
// stdout only.
type Config struct {
	Level string     `mapstructure:"level" yaml:"level"`
	File  FileConfig `mapstructure:"file" yaml:"file"`
}

// FileConfig enables rotating file output alongside the console.
type FileConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

var (
	mu     sync.Mutex
	logger Logger = newLogrusLogger(logrus.New())
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Init reconfigures the global logger from cfg.
func Init(cfg Config) error {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	writers := []io.Writer{os.Stdout}
	if cfg.File.Enabled {
		if cfg.File.Path == "" {
			return fmt.Errorf("file logging requires a path")
		}
		writers = append(writers, newFileWriter(cfg.File))
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(io.MultiWriter(writers...))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	mu.Lock()
	logger = newLogrusLogger(l)
	mu.Unlock()

	return nil
}

// newFileWriter builds the lumberjack writer handling size-based rotation.
func newFileWriter(fc FileConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB,  // megabytes
		MaxBackups: fc.MaxBackups, // number of backups
		MaxAge:     fc.MaxAgeDays, // days
		Compress:   fc.Compress,
	}
}
