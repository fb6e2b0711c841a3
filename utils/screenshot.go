package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go-job-trend-analyzer/internal/logger"
)

// Screenshotter is anything that can write a full-page capture to a path.
type Screenshotter interface {
	Screenshot(path string) error
}

// ScreenShotDebugger handles debug screenshots
type ScreenShotDebugger struct {
	outputDir string
	log       logger.Logger
	now       func() time.Time
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func NewScreenShotDebugger(dir string, log logger.Logger) (*ScreenShotDebugger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
		now:       time.Now,
	}, nil
}

// CaptureAndLog saves a screenshot named after name and the current time, and returns its path.
func (s *ScreenShotDebugger) CaptureAndLog(page Screenshotter, name, message string) (string, error) {
	timestamp := s.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", unsafeName.ReplaceAllString(name, "-"), timestamp)
	path := filepath.Join(s.outputDir, filename)
	s.log.Info(message, logger.String("screenshot", path))

	if err := page.Screenshot(path); err != nil {
		s.log.Warn("Failed to capture screenshot", logger.Error(err))
		return "", err
	}
	return path, nil
}
