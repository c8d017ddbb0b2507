package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  domain.Target
		wantErr bool
	}{
		{name: "empty", target: "", wantErr: true},
		{name: "whitespace only", target: "   ", wantErr: true},
		{name: "tabs and newlines", target: "\t\n ", wantErr: true},
		{name: "plain name", target: "tb_uart", wantErr: false},
		{name: "name with inner spaces", target: "tb uart", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrMissingTarget))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFlags_Args(t *testing.T) {
	tests := []struct {
		name  string
		flags domain.Flags
		want  []string
	}{
		{name: "zero value", flags: domain.Flags{}, want: nil},
		{name: "minimal", flags: domain.Flags{Minimal: true}, want: []string{"--minimal"}},
		{name: "elaborate", flags: domain.Flags{Elaborate: true}, want: []string{"--elaborate"}},
		{
			name:  "both with passthrough",
			flags: domain.Flags{Minimal: true, Elaborate: true, Extra: []string{"--gtkwave-fmt", "vcd"}},
			want:  []string{"--minimal", "--elaborate", "--gtkwave-fmt", "vcd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Args())
		})
	}
}

func TestWorkspace_ExecContext_IsACopy(t *testing.T) {
	ws := &domain.Workspace{
		Image:   "ghdl/vunit:llvm",
		Workdir: "/src",
		Mounts:  []domain.Mount{{Host: ".", Container: "/src"}},
		Env:     map[string]string{"VUNIT_MODULE_PATH": "/src/modules"},
	}

	ec := ws.ExecContext()
	ec.Env["VUNIT_MODULE_PATH"] = "/elsewhere"
	ec.Mounts[0].Host = "/tmp"

	// Mutating the context must not leak back into the workspace.
	assert.Equal(t, "/src/modules", ws.Env["VUNIT_MODULE_PATH"])
	assert.Equal(t, ".", ws.Mounts[0].Host)
}

func TestExitCode(t *testing.T) {
	withCode := zerr.With(zerr.Wrap(domain.ErrCommandFailed, "compile failed"), "exit_code", 2)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{name: "nil", err: nil, wantCode: 0, wantOK: false},
		{name: "plain error", err: errors.New("boom"), wantCode: 0, wantOK: false},
		{name: "direct metadata", err: withCode, wantCode: 2, wantOK: true},
		{name: "wrapped", err: zerr.Wrap(withCode, "pipeline failed"), wantCode: 2, wantOK: true},
		{name: "joined", err: errors.Join(errors.New("other"), withCode), wantCode: 2, wantOK: true},
		{name: "sentinel without code", err: domain.ErrEnvironmentUnavailable, wantCode: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := domain.ExitCode(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
