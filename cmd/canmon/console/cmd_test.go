package console

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/canmon/hardware/can"
	"github.com/temoto/canmon/internal/monitor"
	state_new "github.com/temoto/canmon/internal/state/new"
)

func TestExec(t *testing.T) {
	t.Parallel()
	ctx, _ := state_new.NewTestContext(t, "", `can { receive_timeout_ms = 1 }`)
	m, err := monitor.New(ctx)
	require.NoError(t, err)
	mock := state_new.GetMock(ctx)
	now := state_new.GetClock(ctx).Now()
	m.Ingest(can.MustFrame(0x0A081801, true, []byte{0xab}), now)

	exec := func(line string) string {
		out, err := Exec(ctx, m, line)
		require.NoError(t, err, line)
		return out
	}

	assert.Equal(t, "", exec("  "))
	assert.Contains(t, exec("help"), "reset-devices")
	assert.Contains(t, exec("stats"), "received=1")
	out := exec("devices")
	assert.Contains(t, out, "0A081801 type=10 manufacturer=8 api=060 number=1 count=1")
	assert.Contains(t, out, "data=AB active")
	assert.Contains(t, exec("status"), "state=heartbeat-lost")
	assert.Contains(t, exec("status"), "device_number=1")
	assert.Contains(t, exec("log 5"), "rx 0A081801#AB")

	exec("send 0A081802#0102")
	tx := mock.Transmitted()
	require.Len(t, tx, 1)
	assert.Equal(t, uint32(0x0A081802), tx[0].ID)

	exec("devnum 5")
	assert.Equal(t, "5\n", exec("devnum"))
	exec("save")

	assert.Contains(t, exec("report"), "received: 1")

	exec("clear")
	assert.Equal(t, "", exec("log"))
	exec("reset-devices")
	assert.Contains(t, exec("devices"), "total=0")
	exec("reset-stats uptime")
	assert.Contains(t, exec("stats"), "received=0")

	for _, line := range []string{"bogus", "log x", "send 0A08", "devnum 99", "reset-stats later"} {
		_, err := Exec(ctx, m, line)
		assert.Error(t, err, line)
	}
	_, err = Exec(ctx, m, "bogus")
	assert.True(t, errors.IsNotFound(err))
}
