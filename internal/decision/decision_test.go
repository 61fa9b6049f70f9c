package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsValidate(t *testing.T) {
	assert.NoError(t, OpenShares("SPY", 100).Validate())
	assert.NoError(t, OpenShares("SPY", 0).Validate())
	assert.NoError(t, OpenPercent("SPY", 1.0).Validate())
	assert.NoError(t, OpenPercent("SPY", 0.0).Validate())
	assert.NoError(t, CloseAll("SPY").Validate())
	assert.NoError(t, OpenShort("SPY").Validate())
}

func TestValidateRejectsUnsizedOpen(t *testing.T) {
	d := Decision{Instrument: "SPY", Action: Open}
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither")
}

func TestValidateRejectsBadValues(t *testing.T) {
	assert.Error(t, Decision{}.Validate())
	assert.Error(t, Decision{Instrument: "SPY"}.Validate())
	assert.Error(t, OpenShares("SPY", -1).Validate())
	assert.Error(t, OpenPercent("SPY", 1.5).Validate())
	assert.Error(t, OpenPercent("SPY", -0.5).Validate())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "close", Close.String())
	assert.Equal(t, "short", Short.String())
	assert.Equal(t, "unknown", Action(0).String())
}
