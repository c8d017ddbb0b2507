package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "version exits zero",
			args:         []string{"tbrun", "version"},
			expectedExit: 0,
		},
		{
			name:         "help exits zero",
			args:         []string{"tbrun", "--help"},
			expectedExit: 0,
		},
		{
			name:         "missing config exits one",
			args:         []string{"tbrun", "run", "-c", "does-not-exist.yaml"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args
			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
