// Package relay drives the external enable indicator relay.
package relay

import (
	"strconv"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/canmon/log2"
	gpio "github.com/temoto/gpio-cdev-go"
)

type Config struct {
	Enable    bool   `hcl:"enable"`
	PinChip   string `hcl:"pin_chip"`
	Pin       string `hcl:"pin"`
	ActiveLow bool   `hcl:"active_low"`
	FlashMs   int    `hcl:"flash_ms"`
	PollMs    int    `hcl:"poll_ms"`
}

// Output is anything that can show on/off.
type Output interface {
	Set(on bool) error
	Close() error
}

// Open returns GPIO output when enabled in config, otherwise logging output.
func Open(c *Config, log *log2.Log) (Output, error) {
	if !c.Enable {
		log.Infof("relay disabled, logging output only")
		return NewLogOutput(log), nil
	}
	line, err := strconv.ParseUint(c.Pin, 10, 32)
	if err != nil {
		return nil, errors.Annotate(err, "relay pin must be line number")
	}
	chip, err := gpio.Open(c.PinChip, "canmon")
	if err != nil {
		return nil, errors.Annotatef(err, "relay gpio open chip=%s", c.PinChip)
	}
	g, err := NewGPIO(chip, uint32(line), c.ActiveLow)
	if err != nil {
		_ = chip.Close()
		return nil, err
	}
	return g, nil
}

type GPIO struct {
	mu        sync.Mutex
	chip      gpio.Chiper
	lines     gpio.Lineser
	set       gpio.LineSetFunc
	activeLow bool
	known     bool
	last      bool
}

func NewGPIO(chip gpio.Chiper, line uint32, activeLow bool) (*GPIO, error) {
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "relay", line)
	if err != nil {
		return nil, errors.Annotatef(err, "relay gpio line=%d", line)
	}
	return &GPIO{
		chip:      chip,
		lines:     lines,
		set:       lines.SetFunc(line),
		activeLow: activeLow,
	}, nil
}

// Set writes line only when value changes.
func (g *GPIO) Set(on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.known && g.last == on {
		return nil
	}
	var v byte
	if on != g.activeLow {
		v = 1
	}
	g.set(v)
	if err := g.lines.Flush(); err != nil {
		g.known = false
		return errors.Annotate(err, "relay gpio flush")
	}
	g.known, g.last = true, on
	return nil
}

func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	errs := []error{g.lines.Close(), g.chip.Close()}
	for _, e := range errs {
		if e != nil && !gpio.IsClosed(e) {
			return errors.Annotate(e, "relay gpio close")
		}
	}
	return nil
}

// LogOutput logs transitions, used on bench without relay hardware.
type LogOutput struct {
	mu    sync.Mutex
	log   *log2.Log
	known bool
	last  bool
	count int
}

func NewLogOutput(log *log2.Log) *LogOutput { return &LogOutput{log: log} }

func (l *LogOutput) Set(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.known && l.last == on {
		return nil
	}
	l.known, l.last = true, on
	l.count++
	l.log.Debugf("relay on=%t", on)
	return nil
}

func (l *LogOutput) State() (on bool, changes int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last, l.count
}

func (l *LogOutput) Close() error { return nil }
