package tele

import (
	"context"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
	tele_api "github.com/temoto/canmon/tele"
	tele_config "github.com/temoto/canmon/tele/config"
	"github.com/temoto/spq"
)

const (
	DefaultNetworkTimeout = 30 * time.Second
	DefaultReportLogLimit = 50

	retryMinDelay = 1 * time.Second
	retryMaxDelay = 2 * time.Minute
)

// Tele contract:
//   - Init() fails only with invalid config, network issues ignored
//   - Error/Report/State public API calls block at most for disk write
//     network may be slow or absent, messages will be delivered in background
//   - Telemetry/Response messages delivered at least once
//   - State messages may be lost
type tele struct { //nolint:maligned
	config    tele_config.Config
	log       *log2.Log
	transport Transporter
	q         *spq.Queue
	stateCh   chan tele_api.State
	stopCh    chan struct{}
	workerWg  sync.WaitGroup
	vmId      int32
	retry     helpers.Backoff

	mu           sync.Mutex
	currentState tele_api.State
	errLast      string
	errRepeat    uint32
}

func New() tele_api.Teler {
	return &tele{}
}
func NewWithTransporter(trans Transporter) tele_api.Teler {
	return &tele{transport: trans}
}

func (self *tele) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.config = teleConfig
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return nil
	}

	self.stopCh = make(chan struct{})
	self.stateCh = make(chan tele_api.State, 1)
	self.vmId = int32(self.config.VmId)
	self.retry = helpers.Backoff{Min: retryMinDelay, Max: retryMaxDelay, K: 2}

	if self.config.PersistPath == "" {
		panic("code error must set self.config.PersistPath")
	}
	var err error
	self.q, err = spq.Open(self.config.PersistPath)
	if err != nil {
		return errors.Annotate(err, "tele queue")
	}

	// test code sets .transport
	if self.transport == nil { // production path
		self.transport = &transportMqtt{}
	}
	willPayload := []byte{byte(tele_api.State_Disconnected)}
	if err := self.transport.Init(ctx, log, teleConfig, self.onCommandMessage, willPayload); err != nil {
		_ = self.q.Close()
		return errors.Annotate(err, "tele transport")
	}

	self.workerWg.Add(2)
	go self.qworker()
	go self.stateWorker()
	return nil
}

// Close stops queue worker, undelivered messages stay in persistent queue.
func (self *tele) Close() {
	if !self.config.Enabled || self.q == nil {
		return
	}
	select {
	case <-self.stopCh:
		return
	default:
	}
	close(self.stopCh)
	if err := self.q.Close(); err != nil {
		self.log.Errorf("tele queue close err=%v", err)
	}
	self.workerWg.Wait()
	self.transport.Close()
}

// stateWorker keeps slow transport away from State callers.
func (self *tele) stateWorker() {
	defer self.workerWg.Done()
	for {
		select {
		case s := <-self.stateCh:
			self.transport.SendState([]byte{byte(s)})
		case <-self.stopCh:
			return
		}
	}
}

// pushState never blocks, pending older state is replaced with newer.
func (self *tele) pushState(s tele_api.State) {
	for {
		select {
		case self.stateCh <- s:
			return
		default:
		}
		select {
		case <-self.stateCh:
		default:
		}
	}
}

// denote value type in persistent queue bytes form
const (
	qCommandResponse byte = 1
	qTelemetry       byte = 2
)

func (self *tele) qworker() {
	defer self.workerWg.Done()
	for {
		box, err := self.q.Peek()
		switch err {
		case nil:
			// success path
			b := box.Bytes()
			var del bool
			del, err = self.qhandle(b)
			if err != nil {
				self.log.Errorf("tele qhandle b=%x err=%v", b, err)
			}
			if del {
				err = self.q.Delete(box)
			} else {
				err = self.q.DeletePush(box)
			}
			if err != nil && err != spq.ErrClosed {
				self.log.Errorf("tele queue update b=%x err=%v", b, err)
			}
			if del {
				self.retry.Reset()
			} else {
				select {
				case <-time.After(self.retry.DelayAfter(false)):
				case <-self.stopCh:
					return
				}
			}

		case spq.ErrClosed:
			select {
			case <-self.stopCh: // success path
			default:
				self.log.Errorf("CRITICAL tele spq closed unexpectedly")
			}
			return

		default:
			self.log.Errorf("CRITICAL tele spq err=%v", err)
			select {
			case <-time.After(retryMinDelay):
			case <-self.stopCh:
				return
			}
		}
	}
}

// qhandle returns true when message should be removed from queue.
func (self *tele) qhandle(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, errors.Errorf("tele spq peek=empty")
	}

	switch b[0] {
	case qCommandResponse:
		var r tele_api.Response
		if err := proto.Unmarshal(b[1:], &r); err != nil {
			return true, err
		}
		return self.qsendResponse(&r), nil

	case qTelemetry:
		var tm tele_api.Telemetry
		if err := proto.Unmarshal(b[1:], &tm); err != nil {
			return true, err
		}
		return self.qsendTelemetry(&tm), nil

	default:
		return true, errors.Errorf("unknown kind=%d", b[0])
	}
}

func (self *tele) qpushCommandResponse(c *tele_api.Command, r *tele_api.Response) error {
	r.CommandId = c.Id
	r.INTERNALTopic = c.ReplyTopic
	if r.INTERNALTopic == "" {
		r.INTERNALTopic = "cr"
	}
	return self.qpushTagProto(qCommandResponse, r)
}

func (self *tele) qpushTelemetry(tm *tele_api.Telemetry) error {
	if tm.VmId == 0 {
		tm.VmId = self.vmId
	}
	if tm.Time == 0 {
		tm.Time = time.Now().UnixNano()
	}
	if tm.BuildVersion == "" {
		tm.BuildVersion = self.config.BuildVersion
	}
	return self.qpushTagProto(qTelemetry, tm)
}

func (self *tele) qpushTagProto(tag byte, pb proto.Message) error {
	buf := proto.NewBuffer(make([]byte, 0, 1024))
	if err := buf.EncodeVarint(uint64(tag)); err != nil {
		return err
	}
	if err := buf.Marshal(pb); err != nil {
		return err
	}
	return self.q.Push(buf.Bytes())
}

func (self *tele) qsendResponse(r *tele_api.Response) bool {
	// do not serialize INTERNAL_topic field
	wireResponse := *r
	wireResponse.INTERNALTopic = ""
	payload, err := proto.Marshal(&wireResponse)
	if err != nil {
		self.log.Errorf("CRITICAL response Marshal r=%#v err=%v", r, err)
		return true // retry will not help
	}
	return self.transport.SendCommandResponse(r.INTERNALTopic, payload)
}

func (self *tele) qsendTelemetry(tm *tele_api.Telemetry) bool {
	payload, err := proto.Marshal(tm)
	if err != nil {
		self.log.Errorf("CRITICAL telemetry Marshal tm=%#v err=%v", tm, err)
		return true // retry will not help
	}
	return self.transport.SendTelemetry(payload)
}
