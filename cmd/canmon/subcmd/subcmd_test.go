package subcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/internal/state"
)

func TestParse(t *testing.T) {
	t.Parallel()
	noop := func(context.Context, *state.Config, []string) error { return nil }
	mods := []Mod{
		{Name: "monitor", Usage: "run", Main: noop},
		{Name: "cli", Usage: "interactive", Main: noop},
	}

	m, err := Parse("cli", mods)
	require.NoError(t, err)
	assert.Equal(t, "cli", m.Name)

	_, err = Parse("", mods)
	assert.EqualError(t, err, "empty command")
	_, err = Parse("bogus", mods)
	assert.EqualError(t, err, "unknown command='bogus'")

	assert.Contains(t, Usage(mods), "monitor")
}
