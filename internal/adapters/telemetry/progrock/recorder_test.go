package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prog "github.com/vito/progrock"
	"go.trai.ch/tbrun/internal/adapters/telemetry/progrock"
)

func TestRecorder_RecordAndComplete(t *testing.T) {
	rec := progrock.NewRecorder(prog.NewTape())

	_, v := rec.Record(context.Background(), "Compiling")
	require.NotNil(t, v)

	line := []byte("vcom tb_uart.vhd\n")
	n, err := v.Stdout().Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	v.Complete(nil)
	assert.NoError(t, rec.Close())
}

func TestNew(t *testing.T) {
	assert.NotNil(t, progrock.New())
}
