package spoor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tracknine/spoor"
)

func TestStyleValid(t *testing.T) {
	for _, style := range []spoor.Style{spoor.Local, spoor.Dev, spoor.Test, spoor.Prod} {
		require.Nil(t, style.Valid())
	}

	require.ErrorIs(t, spoor.Style("LOUD").Valid(), spoor.ErrNotValid)
}

func TestStyleIncludesTimestamp(t *testing.T) {
	require.True(t, spoor.Local.IncludesTimestamp())
	require.False(t, spoor.Dev.IncludesTimestamp())
	require.False(t, spoor.Test.IncludesTimestamp())
	require.False(t, spoor.Prod.IncludesTimestamp())
}

func TestNewStyle(t *testing.T) {
	require.Equal(t, spoor.Prod, spoor.NewStyle("prod"))
	require.Equal(t, spoor.Local, spoor.NewStyle("bogus"))
}

func TestEnvVarOrStyle(t *testing.T) {
	// Arrange
	t.Setenv("SPOOR_STYLE", "test")

	// Act + Assert
	require.Equal(t, spoor.Test, spoor.EnvVarOrStyle("SPOOR_STYLE", spoor.Local))

	t.Setenv("SPOOR_STYLE", "bogus")
	require.Equal(t, spoor.Local, spoor.EnvVarOrStyle("SPOOR_STYLE", spoor.Local))
}

func TestEnvVarOrDuration(t *testing.T) {
	// Arrange
	t.Setenv("SPOOR_TIMEOUT", "250ms")

	// Act + Assert
	require.Equal(t, 250*time.Millisecond, spoor.EnvVarOrDuration("SPOOR_TIMEOUT", time.Second))
	require.Equal(t, time.Second, spoor.EnvVarOrDuration("SPOOR_MISSING", time.Second))
}
