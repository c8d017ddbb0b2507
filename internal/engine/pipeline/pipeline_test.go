package pipeline_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.trai.ch/zerr"

	"go.trai.ch/tbrun/internal/adapters/telemetry"
	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/tbrun/internal/core/ports/mocks"
	"go.trai.ch/tbrun/internal/engine/pipeline"
)

// fakeRunner records every command it is asked to run, labelled by the
// phase the command belongs to, into a shared event log so tests can
// assert cross-component ordering.
type fakeRunner struct {
	events   *[]string
	commands []string
	failOn   string
	failErr  error
}

func (f *fakeRunner) Run(_ context.Context, command string, _ domain.ExecContext, _, _ io.Writer) error {
	f.commands = append(f.commands, command)
	if f.events != nil {
		*f.events = append(*f.events, commandLabel(command))
	}
	if f.failOn != "" && strings.Contains(command, f.failOn) {
		return f.failErr
	}
	return nil
}

func commandLabel(command string) string {
	switch {
	case strings.HasPrefix(command, "rm -rf"):
		return "clean"
	case strings.Contains(command, "--simulate"):
		return "simulate"
	case strings.Contains(command, "--compile"):
		return "compile"
	default:
		return command
	}
}

type fakeLocator struct {
	events *[]string
	count  int
	err    error
	calls  int
}

func (f *fakeLocator) Relocate(_ context.Context, _ domain.Target, _, _ string) (int, error) {
	f.calls++
	if f.events != nil {
		*f.events = append(*f.events, "relocate")
	}
	return f.count, f.err
}

type fakeTelemetry struct {
	phases []string
}

func (f *fakeTelemetry) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	f.phases = append(f.phases, name)
	return ctx, fakeVertex{}
}

func (f *fakeTelemetry) Close() error { return nil }

type fakeVertex struct{}

func (fakeVertex) Stdout() io.Writer { return io.Discard }
func (fakeVertex) Stderr() io.Writer { return io.Discard }
func (fakeVertex) Complete(error)    {}
func (fakeVertex) Cached()           {}

type fakeLogger struct {
	infos []string
	warns []string
	errs  []error
}

func (f *fakeLogger) Info(msg string) { f.infos = append(f.infos, msg) }
func (f *fakeLogger) Warn(msg string) { f.warns = append(f.warns, msg) }
func (f *fakeLogger) Error(err error) { f.errs = append(f.errs, err) }

type fakeStore struct {
	infos  map[string]domain.RunInfo
	putErr error
}

func (s *fakeStore) Get(target string) (*domain.RunInfo, error) {
	info, ok := s.infos[target]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (s *fakeStore) Put(info domain.RunInfo) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.infos[info.Target] = info
	return nil
}

type fakeStores struct {
	store   *fakeStore
	openErr error
}

func (f *fakeStores) Open(string) (ports.RunInfoStore, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.store, nil
}

type fakeHasher struct {
	hash string
	err  error
}

func (f *fakeHasher) ComputeFileHash(string) (string, error) {
	return f.hash, f.err
}

type harness struct {
	events    []string
	runner    *fakeRunner
	locator   *fakeLocator
	logger    *fakeLogger
	telemetry *fakeTelemetry
	hasher    *fakeHasher
	stores    *fakeStores
	pipe      *pipeline.Pipeline
}

func newHarness() *harness {
	h := &harness{
		logger:    &fakeLogger{},
		telemetry: &fakeTelemetry{},
		hasher:    &fakeHasher{hash: "00000000deadbeef"},
		stores:    &fakeStores{store: &fakeStore{infos: map[string]domain.RunInfo{}}},
	}
	h.runner = &fakeRunner{events: &h.events}
	h.locator = &fakeLocator{events: &h.events, count: 1}
	h.pipe = pipeline.New(h.runner, h.locator, h.logger, h.telemetry, h.hasher, h.stores)
	return h
}

func testWorkspace() *domain.Workspace {
	return &domain.Workspace{
		Image:   "ghdl/vunit:llvm",
		Tool:    "python3 run.py",
		Workdir: "/src",
		Target:  "tb_fifo",
		Paths: domain.WorkingPaths{
			OutputDir:  "sim_out",
			SearchRoot: "sim_out",
			DestDir:    ".",
		},
		StateFile: ".tbrun/state.json",
	}
}

// exitErr builds the error shape the container runner produces for a
// non-zero toolchain exit.
func exitErr(code int) error {
	return zerr.With(
		zerr.Wrap(errors.Join(domain.ErrCommandFailed, errors.New("exit status")), "command exited non-zero"),
		"exit_code", code)
}

func TestRunAll_PhaseOrder(t *testing.T) {
	h := newHarness()

	err := h.pipe.RunAll(context.Background(), testWorkspace())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"clean", "compile", "relocate", "clean", "simulate"},
		h.events)
	assert.Equal(t,
		[]string{"Cleaning", "Validating", "Compiling", "Relocating", "Recleaning", "Simulating"},
		h.telemetry.phases)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestRunAll_CommandShapes(t *testing.T) {
	h := newHarness()
	ws := testWorkspace()
	ws.Flags = domain.Flags{Minimal: true, Elaborate: true, Extra: []string{"--gui"}}

	require.NoError(t, h.pipe.RunAll(context.Background(), ws))

	require.Len(t, h.runner.commands, 4)
	assert.Equal(t, "rm -rf sim_out", h.runner.commands[0])
	assert.Equal(t, "python3 run.py --compile --output-path sim_out --minimal --elaborate --gui", h.runner.commands[1])
	assert.Equal(t, "rm -rf sim_out", h.runner.commands[2])
	assert.Equal(t, "python3 run.py --simulate tb_fifo --precompiled --output-path sim_out", h.runner.commands[3])
}

func TestRunAll_MissingTargetRunsNothing(t *testing.T) {
	for _, target := range []string{"", "   ", "\t\n"} {
		t.Run("target="+target, func(t *testing.T) {
			h := newHarness()
			ws := testWorkspace()
			ws.Target = domain.Target(target)

			err := h.pipe.RunAll(context.Background(), ws)

			require.ErrorIs(t, err, domain.ErrMissingTarget)
			assert.Empty(t, h.runner.commands)
			assert.Zero(t, h.locator.calls)
			assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
		})
	}
}

func TestRunAll_CompileFailureStopsPipeline(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "--compile"
	h.runner.failErr = exitErr(2)

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrCommandFailed)
	code, ok := domain.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 2, code)

	// Nothing after the compile phase ran.
	assert.Equal(t, []string{"clean", "compile"}, h.events)
	assert.Zero(t, h.locator.calls)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

func TestRunAll_SimulateFailurePropagatesExitCode(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "--simulate"
	h.runner.failErr = exitErr(7)

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrCommandFailed)
	code, ok := domain.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 7, code)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

func TestRunAll_CleanFailureIsSoft(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "rm -rf"
	h.runner.failErr = exitErr(1)

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "compile", "relocate", "clean", "simulate"}, h.events)
	assert.NotEmpty(t, h.logger.warns)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestRunAll_CleanEngineFailureIsFatal(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "rm -rf"
	h.runner.failErr = errors.Join(domain.ErrEnvironmentUnavailable, errors.New("docker: not found"))

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrEnvironmentUnavailable)
	assert.Equal(t, []string{"clean"}, h.events)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

func TestRunAll_RelocationFailureStopsPipeline(t *testing.T) {
	h := newHarness()
	h.locator.err = errors.Join(domain.ErrRelocationFailed, errors.New("permission denied"))

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrRelocationFailed)
	assert.Equal(t, []string{"clean", "compile", "relocate"}, h.events)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

func TestRunAll_ZeroArtifactsWarnsAndContinues(t *testing.T) {
	h := newHarness()
	h.locator.count = 0

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.NoError(t, err)
	require.Len(t, h.logger.warns, 1)
	assert.Contains(t, h.logger.warns[0], "tb_fifo")
	assert.Empty(t, h.stores.store.infos)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestRunAll_RecordsRunInfo(t *testing.T) {
	h := newHarness()
	h.locator.count = 2

	require.NoError(t, h.pipe.RunAll(context.Background(), testWorkspace()))

	info, ok := h.stores.store.infos["tb_fifo"]
	require.True(t, ok)
	assert.Equal(t, "00000000deadbeef", info.ArtifactHash)
	assert.Equal(t, 2, info.Relocated)
	assert.False(t, info.CompiledAt.IsZero())
}

func TestRunAll_BookkeepingFailuresDegradeToWarnings(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(h *harness)
	}{
		{"hash fails", func(h *harness) { h.hasher.err = errors.New("open: no such file") }},
		{"store open fails", func(h *harness) { h.stores.openErr = domain.ErrStoreReadFailed }},
		{"store put fails", func(h *harness) { h.stores.store.putErr = domain.ErrStoreWriteFailed }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			tt.tweak(h)

			err := h.pipe.RunAll(context.Background(), testWorkspace())

			require.NoError(t, err)
			assert.NotEmpty(t, h.logger.warns)
			assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
		})
	}
}

func TestCompileOnly_StopsAfterRelocation(t *testing.T) {
	h := newHarness()

	err := h.pipe.CompileOnly(context.Background(), testWorkspace())

	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "compile", "relocate"}, h.events)
	assert.Equal(t,
		[]string{"Cleaning", "Validating", "Compiling", "Relocating"},
		h.telemetry.phases)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestCompileOnly_MissingTargetRunsNothing(t *testing.T) {
	h := newHarness()
	ws := testWorkspace()
	ws.Target = " "

	err := h.pipe.CompileOnly(context.Background(), ws)

	require.ErrorIs(t, err, domain.ErrMissingTarget)
	assert.Empty(t, h.runner.commands)
}

func TestSimulatePrecompiled_SingleCommand(t *testing.T) {
	h := newHarness()
	h.stores.store.infos["tb_fifo"] = domain.RunInfo{Target: "tb_fifo", ArtifactHash: "00000000deadbeef"}

	err := h.pipe.SimulatePrecompiled(context.Background(), testWorkspace())

	require.NoError(t, err)
	require.Len(t, h.runner.commands, 1)
	assert.Contains(t, h.runner.commands[0], "--simulate tb_fifo")
	assert.Contains(t, h.runner.commands[0], "--precompiled")
	assert.Zero(t, h.locator.calls)
	assert.Empty(t, h.logger.warns)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestSimulatePrecompiled_WarnsWithoutRecordedCompile(t *testing.T) {
	h := newHarness()

	err := h.pipe.SimulatePrecompiled(context.Background(), testWorkspace())

	require.NoError(t, err)
	require.Len(t, h.logger.warns, 1)
	assert.Contains(t, h.logger.warns[0], "no recorded compile")
}

func TestSimulatePrecompiled_MissingTarget(t *testing.T) {
	h := newHarness()
	ws := testWorkspace()
	ws.Target = ""

	err := h.pipe.SimulatePrecompiled(context.Background(), ws)

	require.ErrorIs(t, err, domain.ErrMissingTarget)
	assert.Empty(t, h.runner.commands)
}

func TestCleanOnly(t *testing.T) {
	h := newHarness()

	err := h.pipe.CleanOnly(context.Background(), testWorkspace())

	require.NoError(t, err)
	assert.Equal(t, []string{"rm -rf sim_out"}, h.runner.commands)
	assert.Equal(t, domain.PhaseDone, h.pipe.Phase())
}

func TestCleanOnly_FailureIsFatal(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "rm -rf"
	h.runner.failErr = exitErr(1)

	err := h.pipe.CleanOnly(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

func TestRunAll_InterruptStopsPipeline(t *testing.T) {
	h := newHarness()
	h.runner.failOn = "--compile"
	h.runner.failErr = errors.Join(domain.ErrInterrupted, context.Canceled)

	err := h.pipe.RunAll(context.Background(), testWorkspace())

	require.ErrorIs(t, err, domain.ErrInterrupted)
	assert.Equal(t, domain.PhaseFailed, h.pipe.Phase())
}

// TestRunAll_MockedStorePath exercises the same bookkeeping flow through
// the generated mocks to pin the exact calls the pipeline makes.
func TestRunAll_MockedStorePath(t *testing.T) {
	ctrl := gomock.NewController(t)

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeFileHash("tb_fifo").Return("aabbccdd00112233", nil)

	store := mocks.NewMockRunInfoStore(ctrl)
	store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.RunInfo) error {
		assert.Equal(t, "tb_fifo", info.Target)
		assert.Equal(t, "aabbccdd00112233", info.ArtifactHash)
		assert.Equal(t, 1, info.Relocated)
		return nil
	})

	stores := mocks.NewMockStoreFactory(ctrl)
	stores.EXPECT().Open(".tbrun/state.json").Return(store, nil)

	logger := &fakeLogger{}
	runner := &fakeRunner{}
	locator := &fakeLocator{count: 1}
	pipe := pipeline.New(runner, locator, logger, telemetry.NewNoOp(), hasher, stores)

	require.NoError(t, pipe.RunAll(context.Background(), testWorkspace()))
}
