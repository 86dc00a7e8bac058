package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
)

func TestCheckPassesOnHealthyDevice(t *testing.T) {
	g := NewGate(ProbeFunc(func() bool { return false }))
	assert.NoError(t, g.Check())
}

func TestCheckVetoesCompromisedDevice(t *testing.T) {
	g := NewGate(ProbeFunc(func() bool { return true }))
	err := g.Check()
	require.Error(t, err)
	assert.True(t, aierrors.IsCode(err, aierrors.CodeSecurityCheckFailed))
}

func TestNilProbeNeverVetoes(t *testing.T) {
	g := NewGate(nil)
	assert.NoError(t, g.Check())
}

func TestProbeConsultedPerCheck(t *testing.T) {
	compromised := false
	g := NewGate(ProbeFunc(func() bool { return compromised }))

	require.NoError(t, g.Check())
	compromised = true
	assert.Error(t, g.Check(), "a probe flip must take effect on the next check")
}
