package domain

import "time"

// RunInfo records the outcome of a compile-and-relocate run for a target.
// It lets a later precompiled simulation tell whether the artifact it is
// about to reuse was produced by this tool, and when.
type RunInfo struct {
	Target       string    `json:"target,omitzero"`
	ArtifactHash string    `json:"artifact_hash,omitzero"`
	Relocated    int       `json:"relocated,omitzero"`
	CompiledAt   time.Time `json:"compiled_at,omitzero"`
}
