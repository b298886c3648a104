// Decode telemetry dumps, e.g. mosquitto_sub -F %x output.
package tele

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/canmon/cmd/canmon/subcmd"
	"github.com/temoto/canmon/helpers/cli"
	"github.com/temoto/canmon/internal/state"
	tele_api "github.com/temoto/canmon/tele"
)

const modName = "tele"

var Mod = subcmd.Mod{Name: modName, Usage: "decode hex telemetry/command/response lines from stdin", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	return cli.MainLoop(modName, func(line string) {
		s, err := Decode(line)
		if err != nil {
			g.Log.Errorf(errors.ErrorStack(err))
			return
		}
		fmt.Print(s)
	}, func(prompt.Document) []prompt.Suggest { return nil }, nil)
}

// Decode accepts "kind hex" or bare hex as telemetry, kind is t|c|r.
func Decode(line string) (string, error) {
	kind, text := "t", strings.TrimSpace(line)
	if i := strings.IndexByte(text, ' '); i > 0 {
		kind, text = text[:i], strings.TrimSpace(text[i+1:])
	}
	// mosquitto_sub wrongly strips leading zero in hex format
	if len(text)%2 == 1 {
		text = "0" + text
	}
	b, err := hex.DecodeString(text)
	if err != nil {
		return "", errors.Annotate(err, "hex decode")
	}

	var pb proto.Message
	switch kind {
	case "t":
		pb = new(tele_api.Telemetry)
	case "c":
		pb = new(tele_api.Command)
	case "r":
		pb = new(tele_api.Response)
	default:
		return "", errors.NotValidf("kind=%q", kind)
	}
	if err := proto.Unmarshal(b, pb); err != nil {
		return "", errors.Annotate(err, "proto unmarshal")
	}
	return proto.MarshalTextString(pb), nil
}
