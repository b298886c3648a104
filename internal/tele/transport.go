package tele

import (
	"context"
	"fmt"

	"github.com/temoto/canmon/log2"
	tele_config "github.com/temoto/canmon/tele/config"
)

// Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* return true when message is delivered or retry will not help
// - hide "connection" concept from upstream API or errors; transport delivers messages at least once
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, onCommand CommandCallback, willPayload []byte) error
	Close()
	SendState(payload []byte) bool
	SendTelemetry(payload []byte) bool
	SendCommandResponse(topicSuffix string, payload []byte) bool
}

type CommandCallback func(context.Context, []byte) bool

func TopicConnect(vmid int32) string                 { return fmt.Sprintf("vm%d/c", vmid) }
func TopicCommand(vmid int32) string                 { return fmt.Sprintf("vm%d/r/c", vmid) }
func TopicResponse(vmid int32, suffix string) string { return fmt.Sprintf("vm%d/%s", vmid, suffix) }
func TopicState(vmid int32) string                   { return fmt.Sprintf("vm%d/w/1s", vmid) }
func TopicTelemetry(vmid int32) string               { return fmt.Sprintf("vm%d/w/1t", vmid) }
