// Package security provides the pre-flight device integrity check that can
// veto any outbound AI request.
package security

import (
	aierrors "github.com/sezginpak/lifestyles/internal/errors"
)

// Probe reports whether the device is compromised (jailbroken/rooted).
// Implementations are platform-specific and injected by the host app.
type Probe interface {
	IsCompromised() bool
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func() bool

// IsCompromised implements Probe.
func (f ProbeFunc) IsCompromised() bool { return f() }

// AlwaysSecure is a Probe that never vetoes. Useful for tests and platforms
// without an integrity signal.
var AlwaysSecure Probe = ProbeFunc(func() bool { return false })

// Gate wraps a Probe into the pipeline's pre-flight check.
type Gate struct {
	probe Probe
}

// NewGate creates a gate around the given probe. A nil probe never vetoes.
func NewGate(probe Probe) *Gate {
	if probe == nil {
		probe = AlwaysSecure
	}
	return &Gate{probe: probe}
}

// Check returns a SecurityCheckFailed error when the device is compromised.
// It must run before the rate limiter so a vetoed request never burns quota.
func (g *Gate) Check() error {
	if g.probe.IsCompromised() {
		return aierrors.SecurityCheckFailed("device integrity check failed")
	}
	return nil
}
