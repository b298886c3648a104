package can

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
)

const (
	DefaultReceiveTimeout  = 100 * time.Millisecond
	DefaultTransmitTimeout = 20 * time.Millisecond
	DefaultQueueSize       = 256
	DefaultRecoverAttempts = 3
	DefaultRecoverDelay    = 100 * time.Millisecond
)

type Config struct {
	Driver            string `hcl:"driver"` // socketcan|mock
	Interface         string `hcl:"interface"`
	ReceiveTimeoutMs  int    `hcl:"receive_timeout_ms"`
	TransmitTimeoutMs int    `hcl:"transmit_timeout_ms"`
	QueueSize         int    `hcl:"queue_size"`
	LogDebug          bool   `hcl:"log_debug"`
	Recovery          struct {
		Attempts int `hcl:"attempts"`
		DelayMs  int `hcl:"delay_ms"`
	} `hcl:"recovery"`
}

func (c *Config) ReceiveTimeout() time.Duration {
	return helpers.IntMillisecondDefault(c.ReceiveTimeoutMs, DefaultReceiveTimeout)
}
func (c *Config) TransmitTimeout() time.Duration {
	return helpers.IntMillisecondDefault(c.TransmitTimeoutMs, DefaultTransmitTimeout)
}
func (c *Config) RecoverDelay() time.Duration {
	return helpers.IntMillisecondDefault(c.Recovery.DelayMs, DefaultRecoverDelay)
}
func (c *Config) RecoverAttempts() uint {
	if c.Recovery.Attempts <= 0 {
		return DefaultRecoverAttempts
	}
	return uint(c.Recovery.Attempts)
}
func (c *Config) queueSize() int {
	if c.QueueSize <= 0 {
		return DefaultQueueSize
	}
	return c.QueueSize
}

// Open constructs driver selected by config.
func Open(c *Config, log *log2.Log) (Bus, error) {
	if c.LogDebug {
		log = log.Clone(log2.LDebug)
	} else {
		log = log.Clone(log2.LInfo)
	}
	switch c.Driver {
	case "mock":
		log.Infof("can driver=mock")
		return NewMock(c.queueSize()), nil
	case "", "socketcan":
		if c.Interface == "" {
			return nil, errors.NotValidf("can.interface empty")
		}
		s, err := OpenSocketCAN(c, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.NotSupportedf("can.driver=%s", c.Driver)
}
