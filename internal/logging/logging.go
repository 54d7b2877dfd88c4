package logging

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"kanban/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger. With cfg.File set, output goes to a
// rotating file (relative paths resolve against workspace); otherwise to stderr.
func New(cfg config.LogConfig, workspace string) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(level)
	path := FilePath(cfg, workspace)
	if path == "" {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return logger, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, file, nil
}

// FilePath resolves the configured log file, or "" when logging to stderr.
func FilePath(cfg config.LogConfig, workspace string) string {
	if cfg.File == "" {
		return ""
	}
	if filepath.IsAbs(cfg.File) {
		return cfg.File
	}
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, cfg.File)
}

// Tail returns the last n lines of the file at path.
func Tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if n <= 0 {
		return []string{}, nil
	}
	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			ring = append(ring[1:], sc.Text())
			continue
		}
		ring = append(ring, sc.Text())
	}
	return ring, sc.Err()
}
