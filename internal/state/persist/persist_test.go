package persist

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/log2"
)

type byteState struct{ v byte }

func (b *byteState) MarshalBinary() ([]byte, error) { return []byte{b.v}, nil }
func (b *byteState) UnmarshalBinary(p []byte) error {
	if len(p) != 1 {
		return errors.NotValidf("length=%d", len(p))
	}
	b.v = p[0]
	return nil
}

func TestPersistRoundTrip(t *testing.T) {
	t.Parallel()
	log := log2.NewTest(t, log2.LDebug)
	root := t.TempDir()

	var p1 Persist
	s1 := &byteState{v: 42}
	require.NoError(t, p1.Init("device", s1, root, true, log))
	found, err := p1.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, byte(42), s1.v)
	require.NoError(t, p1.Store())

	var p2 Persist
	s2 := &byteState{}
	require.NoError(t, p2.Init("device", s2, root, true, log))
	found, err = p2.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, byte(42), s2.v)
}

func TestPersistDisabled(t *testing.T) {
	t.Parallel()
	log := log2.NewTest(t, log2.LDebug)
	var p Persist
	require.NoError(t, p.Init("device", &byteState{}, "", false, log))
	assert.False(t, p.Enabled())
	found, err := p.Load()
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, p.Store())
}

func TestPersistEmptyRoot(t *testing.T) {
	t.Parallel()
	log := log2.NewTest(t, log2.LDebug)
	var p Persist
	err := p.Init("device", &byteState{}, "", true, log)
	assert.True(t, errors.IsNotValid(err))
}
