package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/canmon/cmd/canmon/console"
	"github.com/temoto/canmon/cmd/canmon/devnum"
	"github.com/temoto/canmon/cmd/canmon/monitor"
	"github.com/temoto/canmon/cmd/canmon/subcmd"
	cmd_tele "github.com/temoto/canmon/cmd/canmon/tele"
	"github.com/temoto/canmon/internal/state"
	state_new "github.com/temoto/canmon/internal/state/new"
	"github.com/temoto/canmon/internal/tele"
	"github.com/temoto/canmon/log2"
)

var BuildVersion string = "unknown" // set by ldflags -X

var log = log2.NewStderr(log2.LDebug)

var modules = []subcmd.Mod{
	monitor.Mod,
	console.Mod,
	devnum.Mod,
	cmd_tele.Mod,
	{Name: "version", Usage: "print build version", Main: func(context.Context, *state.Config, []string) error {
		fmt.Printf("canmon %s\n", BuildVersion)
		return nil
	}},
}

func main() {
	flagset := flag.NewFlagSet("canmon", flag.ExitOnError)
	configPath := flagset.String("config", "canmon.hcl", "")
	flagset.Usage = func() {
		fmt.Fprintf(flagset.Output(), "Usage: canmon [-config=canmon.hcl] command [args]\n\nCommands:\n%s\nOptions:\n", subcmd.Usage(modules))
		flagset.PrintDefaults()
	}
	_ = flagset.Parse(os.Args[1:])

	command := "monitor"
	args := flagset.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		flagset.Usage()
		log.Fatal(err)
	}

	if subcmd.SdNotify("start") {
		// under systemd assume journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	} else {
		log.SetFlags(log2.LStdFlags)
	}
	log.Infof("canmon version=%s starting %s", BuildVersion, command)

	ctx, g := state_new.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion
	var config *state.Config
	if mod.Name != "version" {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	}

	if err := mod.Main(ctx, config, args); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	log.Debugf("bye")
}
