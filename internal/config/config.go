// Package config reads the handful of environment-level settings the
// planner needs: the symmetry-breaking policy and the debug-assertion
// gate. Mirrors the opt-in env var pattern used for tracing flags in
// pkg/minikanren/wfs_trace.go (GOKANDO_WFS_TRACE), scoped here to a
// single exported struct instead of a package-level atomic, since this
// reads once per process rather than being toggled at runtime.
package config

import (
	"os"
)

// SymmetryBreaking selects the chronicle encoder's symmetry-breaking
// policy.
type SymmetryBreaking string

const (
	SymmetryBreakingNone   SymmetryBreaking = "none"
	SymmetryBreakingSimple SymmetryBreaking = "simple"
)

const symmetryEnvVar = "ARIES_LCP_SYMMETRY_BREAKING"

// SymmetryBreakingFromEnv reads ARIES_LCP_SYMMETRY_BREAKING, defaulting to
// "simple" when unset or set to an unrecognized value.
func SymmetryBreakingFromEnv() SymmetryBreaking {
	switch SymmetryBreaking(os.Getenv(symmetryEnvVar)) {
	case SymmetryBreakingNone:
		return SymmetryBreakingNone
	default:
		return SymmetryBreakingSimple
	}
}

// DebugAssertions is on by default, matching the teacher's posture of
// shipping its sanity checks (debug_assert_eq! calls) in development
// builds. Set ARIES_LCP_NO_DEBUG_ASSERTIONS=1 to disable them, e.g. for a
// release-profile benchmark run where the lockstep assertion over many
// theories would otherwise dominate the hot loop.
var DebugAssertions = os.Getenv("ARIES_LCP_NO_DEBUG_ASSERTIONS") != "1"
