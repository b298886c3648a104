package tele

import (
	"context"

	"github.com/temoto/canmon/log2"
	tele_config "github.com/temoto/canmon/tele/config"
)

type Noop struct{}

var _ Teler = Noop{} // compile-time interface test

func (Noop) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }

func (Noop) Close() {}

func (Noop) Error(error) {}

func (Noop) State(State) {}

func (Noop) Report(ctx context.Context) error { return nil }
