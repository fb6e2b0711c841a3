package utils

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-job-trend-analyzer/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingShot struct {
	paths []string
	err   error
}

func (r *recordingShot) Screenshot(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestCaptureAndLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	d, err := NewScreenShotDebugger(dir, logger.NewNop())
	require.NoError(t, err)
	d.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }

	shot := &recordingShot{}
	path, err := d.CaptureAndLog(shot, "linkedin reveal/1", "reveal failed")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "linkedin-reveal-1_2024-03-05_10-00-00.000.png"), path)
	assert.Equal(t, []string{path}, shot.paths)
}

func TestCaptureAndLog_Error(t *testing.T) {
	d, err := NewScreenShotDebugger(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	path, err := d.CaptureAndLog(&recordingShot{err: errors.New("closed")}, "x", "msg")
	assert.Error(t, err)
	assert.Empty(t, path)
	assert.False(t, strings.HasSuffix(path, ".png"))
}
