package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tbrun/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Info("compiling workspace")
	log.Warn("no artifact found")
	log.Error(zerr.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "compiling workspace")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "no artifact found")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "boom")
}
