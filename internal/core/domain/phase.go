package domain

// Phase represents the pipeline's position in its state machine.
type Phase string

const (
	// PhaseIdle indicates no pipeline has started yet.
	PhaseIdle Phase = "Idle"
	// PhaseCleaning indicates the simulation output directory is being removed.
	PhaseCleaning Phase = "Cleaning"
	// PhaseValidating indicates the target gate is being checked.
	PhaseValidating Phase = "Validating"
	// PhaseCompiling indicates the full-workspace compile is running.
	PhaseCompiling Phase = "Compiling"
	// PhaseRelocating indicates compiled artifacts are being copied out.
	PhaseRelocating Phase = "Relocating"
	// PhaseRecleaning indicates the post-compile re-clean is running.
	PhaseRecleaning Phase = "Recleaning"
	// PhaseSimulating indicates the simulate command is running.
	PhaseSimulating Phase = "Simulating"
	// PhaseDone indicates all phases succeeded.
	PhaseDone Phase = "Done"
	// PhaseFailed indicates a phase failed and the pipeline stopped.
	PhaseFailed Phase = "Failed"
)

func (p Phase) String() string {
	return string(p)
}
