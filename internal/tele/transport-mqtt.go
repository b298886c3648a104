package tele

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/canmon/helpers"
	"github.com/temoto/canmon/log2"
	tele_config "github.com/temoto/canmon/tele/config"
)

const (
	defaultKeepalive   = 60 * time.Second
	defaultPingTimeout = 30 * time.Second
)

type transportMqtt struct {
	log       *log2.Log
	onCommand func([]byte) bool
	m         mqtt.Client
	timeout   time.Duration

	vmid           int32
	topicConnect   string
	topicState     string
	topicTelemetry string
	topicCommand   string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, onCommand CommandCallback, willPayload []byte) error {
	self.log = log
	mqttLog := log.Clone(log2.LInfo)
	if teleConfig.MqttLogDebug {
		mqttLog.SetLevel(log2.LDebug)
		mqtt.DEBUG = mqttLog
	}
	mqtt.ERROR = mqttLog
	mqtt.CRITICAL = mqttLog
	mqtt.WARN = mqttLog

	if _, err := url.ParseRequestURI(teleConfig.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele mqtt_broker=%s", teleConfig.MqttBroker)
	}

	self.vmid = int32(teleConfig.VmId)
	mqttClientId := fmt.Sprintf("vm%d", teleConfig.VmId)
	credFun := func() (string, string) {
		return mqttClientId, teleConfig.MqttPassword
	}
	self.onCommand = func(payload []byte) bool {
		return onCommand(ctx, payload)
	}
	self.topicConnect = TopicConnect(self.vmid)
	self.topicState = TopicState(self.vmid)
	self.topicTelemetry = TopicTelemetry(self.vmid)
	self.topicCommand = TopicCommand(self.vmid)
	keepAlive := helpers.IntSecondDefault(teleConfig.KeepaliveSec, defaultKeepalive)
	pingTimeout := helpers.IntSecondDefault(teleConfig.PingTimeoutSec, defaultPingTimeout)
	self.timeout = helpers.IntSecondDefault(teleConfig.NetworkTimeoutSec, DefaultNetworkTimeout)
	storePath := teleConfig.StorePath
	if storePath == "" {
		storePath = filepath.Join(teleConfig.PersistPath, "mqtt")
	}

	mopt := mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetBinaryWill(self.topicConnect, willPayload, 1, true).
		SetCleanSession(false).
		SetClientID(mqttClientId).
		SetCredentialsProvider(credFun).
		SetDefaultPublishHandler(self.messageHandler).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetOrderMatters(false).
		SetResumeSubs(true).
		SetStore(mqtt.NewFileStore(storePath)).
		SetConnectRetryInterval(keepAlive / 2).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler).
		SetConnectRetry(true)
	self.m = mqtt.NewClient(mopt)
	// with ConnectRetry token completes only on success, network errors are not init errors
	if token := self.m.Connect(); token.WaitTimeout(self.timeout) && token.Error() != nil {
		self.log.Errorf("tele mqtt connect err=%v", token.Error())
	}
	return nil
}

func (self *transportMqtt) Close() {
	if token := self.m.Unsubscribe(self.topicCommand); token.WaitTimeout(self.timeout) && token.Error() != nil {
		self.log.Errorf("tele mqtt unsubscribe err=%v", token.Error())
	}
	self.m.Publish(self.topicConnect, 1, true, []byte{0x00}).WaitTimeout(self.timeout)
	self.m.Disconnect(uint(self.timeout / time.Millisecond))
}

// SendState does not wait for broker ack, state messages may be lost.
func (self *transportMqtt) SendState(payload []byte) bool {
	self.log.Debugf("tele mqtt state payload=%x", payload)
	self.m.Publish(self.topicState, 1, true, payload)
	return true
}

func (self *transportMqtt) SendTelemetry(payload []byte) bool {
	return self.publish(self.topicTelemetry, false, payload)
}

func (self *transportMqtt) SendCommandResponse(topicSuffix string, payload []byte) bool {
	topic := TopicResponse(self.vmid, topicSuffix)
	self.log.Debugf("tele mqtt command response topic=%s", topic)
	return self.publish(topic, false, payload)
}

// publish waits for broker ack, false means try again later.
func (self *transportMqtt) publish(topic string, retain bool, payload []byte) bool {
	token := self.m.Publish(topic, 1, retain, payload)
	if !token.WaitTimeout(self.timeout) {
		self.log.Debugf("tele mqtt publish topic=%s timeout=%v", topic, self.timeout)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Errorf("tele mqtt publish topic=%s err=%v", topic, err)
		return false
	}
	return true
}

func (self *transportMqtt) messageHandler(c mqtt.Client, msg mqtt.Message) {
	if msg.Topic() != self.topicCommand {
		self.log.Errorf("tele mqtt message in unexpected topic=%s payload=%x", msg.Topic(), msg.Payload())
		return
	}
	self.onCommand(msg.Payload())
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt connection lost err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connected")
	if token := c.Subscribe(self.topicCommand, 1, nil); token.Wait() && token.Error() != nil {
		self.log.Errorf("tele mqtt subscribe topic=%s err=%v", self.topicCommand, token.Error())
		return
	}
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}
