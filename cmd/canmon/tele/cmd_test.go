package tele

import (
	"encoding/hex"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele_api "github.com/temoto/canmon/tele"
)

func TestDecode(t *testing.T) {
	t.Parallel()
	tm := &tele_api.Telemetry{VmId: 3, Stat: &tele_api.Telemetry_Stat{Received: 10}}
	b, err := proto.Marshal(tm)
	require.NoError(t, err)

	s, err := Decode(hex.EncodeToString(b))
	require.NoError(t, err)
	assert.Contains(t, s, "vm_id: 3")
	assert.Contains(t, s, "received: 10")

	r, err := proto.Marshal(&tele_api.Response{CommandId: 5, Error: "oops"})
	require.NoError(t, err)
	s, err = Decode("r " + hex.EncodeToString(r))
	require.NoError(t, err)
	assert.Contains(t, s, `error: "oops"`)

	_, err = Decode("zz")
	assert.Error(t, err)
	_, err = Decode("q 00")
	assert.Error(t, err)
}
