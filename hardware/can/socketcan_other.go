//go:build !linux

package can

import (
	"github.com/juju/errors"
	"github.com/temoto/canmon/log2"
)

type SocketCAN struct{ Bus }

func OpenSocketCAN(c *Config, log *log2.Log) (*SocketCAN, error) {
	return nil, errors.NotSupportedf("socketcan outside linux")
}
