// Hand-maintained equivalent of protoc-gen-go output for tele.proto.
// Keep field numbers and tags in sync with tele.proto.

package tele

import (
	fmt "fmt"

	proto "github.com/golang/protobuf/proto"
)

// Reference imports to suppress errors if they are not otherwise used.
var _ = proto.Marshal
var _ = fmt.Errorf

// This is a compile-time assertion to ensure that this file
// is compatible with the proto package it is being compiled against.
const _ = proto.ProtoPackageIsVersion3 // please upgrade the proto package

type State int32

const (
	State_Invalid       State = 0
	State_Boot          State = 1
	State_Enabled       State = 2
	State_Disabled      State = 3
	State_HeartbeatLost State = 4
	State_Disconnected  State = 5
)

var State_name = map[int32]string{
	0: "Invalid",
	1: "Boot",
	2: "Enabled",
	3: "Disabled",
	4: "HeartbeatLost",
	5: "Disconnected",
}

var State_value = map[string]int32{
	"Invalid":       0,
	"Boot":          1,
	"Enabled":       2,
	"Disabled":      3,
	"HeartbeatLost": 4,
	"Disconnected":  5,
}

func (x State) String() string {
	return proto.EnumName(State_name, int32(x))
}

type Command_Uptime int32

const (
	Command_Default Command_Uptime = 0
	Command_Keep    Command_Uptime = 1
	Command_Reset   Command_Uptime = 2
)

var Command_Uptime_name = map[int32]string{
	0: "Default",
	1: "Keep",
	2: "Reset",
}

var Command_Uptime_value = map[string]int32{
	"Default": 0,
	"Keep":    1,
	"Reset":   2,
}

func (x Command_Uptime) String() string {
	return proto.EnumName(Command_Uptime_name, int32(x))
}

type Command struct {
	Id                   uint32                      `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	ReplyTopic           string                      `protobuf:"bytes,2,opt,name=reply_topic,json=replyTopic,proto3" json:"reply_topic,omitempty"`
	Deadline             int64                       `protobuf:"varint,3,opt,name=deadline,proto3" json:"deadline,omitempty"`
	Report               *Command_ArgReport          `protobuf:"bytes,4,opt,name=report,proto3" json:"report,omitempty"`
	ClearLog             *Command_ArgClearLog        `protobuf:"bytes,5,opt,name=clear_log,json=clearLog,proto3" json:"clear_log,omitempty"`
	ResetStats           *Command_ArgResetStats      `protobuf:"bytes,6,opt,name=reset_stats,json=resetStats,proto3" json:"reset_stats,omitempty"`
	ResetDevices         *Command_ArgResetDevices    `protobuf:"bytes,7,opt,name=reset_devices,json=resetDevices,proto3" json:"reset_devices,omitempty"`
	SendFrame            *Command_ArgSendFrame       `protobuf:"bytes,8,opt,name=send_frame,json=sendFrame,proto3" json:"send_frame,omitempty"`
	SetDeviceNumber      *Command_ArgSetDeviceNumber `protobuf:"bytes,9,opt,name=set_device_number,json=setDeviceNumber,proto3" json:"set_device_number,omitempty"`
	XXX_NoUnkeyedLiteral struct{}                    `json:"-"`
	XXX_unrecognized     []byte                      `json:"-"`
	XXX_sizecache        int32                       `json:"-"`
}

func (m *Command) Reset()         { *m = Command{} }
func (m *Command) String() string { return proto.CompactTextString(m) }
func (*Command) ProtoMessage()    {}

func (m *Command) GetId() uint32 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Command) GetReplyTopic() string {
	if m != nil {
		return m.ReplyTopic
	}
	return ""
}

func (m *Command) GetDeadline() int64 {
	if m != nil {
		return m.Deadline
	}
	return 0
}

func (m *Command) GetReport() *Command_ArgReport {
	if m != nil {
		return m.Report
	}
	return nil
}

func (m *Command) GetClearLog() *Command_ArgClearLog {
	if m != nil {
		return m.ClearLog
	}
	return nil
}

func (m *Command) GetResetStats() *Command_ArgResetStats {
	if m != nil {
		return m.ResetStats
	}
	return nil
}

func (m *Command) GetResetDevices() *Command_ArgResetDevices {
	if m != nil {
		return m.ResetDevices
	}
	return nil
}

func (m *Command) GetSendFrame() *Command_ArgSendFrame {
	if m != nil {
		return m.SendFrame
	}
	return nil
}

func (m *Command) GetSetDeviceNumber() *Command_ArgSetDeviceNumber {
	if m != nil {
		return m.SetDeviceNumber
	}
	return nil
}

type Command_ArgReport struct {
	LogLimit             int32    `protobuf:"varint,1,opt,name=log_limit,json=logLimit,proto3" json:"log_limit,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgReport) Reset()         { *m = Command_ArgReport{} }
func (m *Command_ArgReport) String() string { return proto.CompactTextString(m) }
func (*Command_ArgReport) ProtoMessage()    {}

func (m *Command_ArgReport) GetLogLimit() int32 {
	if m != nil {
		return m.LogLimit
	}
	return 0
}

type Command_ArgClearLog struct {
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgClearLog) Reset()         { *m = Command_ArgClearLog{} }
func (m *Command_ArgClearLog) String() string { return proto.CompactTextString(m) }
func (*Command_ArgClearLog) ProtoMessage()    {}

type Command_ArgResetStats struct {
	Uptime               Command_Uptime `protobuf:"varint,1,opt,name=uptime,proto3,enum=tele.Command_Uptime" json:"uptime,omitempty"`
	XXX_NoUnkeyedLiteral struct{}       `json:"-"`
	XXX_unrecognized     []byte         `json:"-"`
	XXX_sizecache        int32          `json:"-"`
}

func (m *Command_ArgResetStats) Reset()         { *m = Command_ArgResetStats{} }
func (m *Command_ArgResetStats) String() string { return proto.CompactTextString(m) }
func (*Command_ArgResetStats) ProtoMessage()    {}

func (m *Command_ArgResetStats) GetUptime() Command_Uptime {
	if m != nil {
		return m.Uptime
	}
	return Command_Default
}

type Command_ArgResetDevices struct {
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgResetDevices) Reset()         { *m = Command_ArgResetDevices{} }
func (m *Command_ArgResetDevices) String() string { return proto.CompactTextString(m) }
func (*Command_ArgResetDevices) ProtoMessage()    {}

type Command_ArgSendFrame struct {
	Id                   string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Data                 string   `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgSendFrame) Reset()         { *m = Command_ArgSendFrame{} }
func (m *Command_ArgSendFrame) String() string { return proto.CompactTextString(m) }
func (*Command_ArgSendFrame) ProtoMessage()    {}

func (m *Command_ArgSendFrame) GetId() string {
	if m != nil {
		return m.Id
	}
	return ""
}

func (m *Command_ArgSendFrame) GetData() string {
	if m != nil {
		return m.Data
	}
	return ""
}

type Command_ArgSetDeviceNumber struct {
	Number               uint32   `protobuf:"varint,1,opt,name=number,proto3" json:"number,omitempty"`
	Save                 bool     `protobuf:"varint,2,opt,name=save,proto3" json:"save,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command_ArgSetDeviceNumber) Reset()         { *m = Command_ArgSetDeviceNumber{} }
func (m *Command_ArgSetDeviceNumber) String() string { return proto.CompactTextString(m) }
func (*Command_ArgSetDeviceNumber) ProtoMessage()    {}

func (m *Command_ArgSetDeviceNumber) GetNumber() uint32 {
	if m != nil {
		return m.Number
	}
	return 0
}

func (m *Command_ArgSetDeviceNumber) GetSave() bool {
	if m != nil {
		return m.Save
	}
	return false
}

type Response struct {
	CommandId            uint32   `protobuf:"varint,1,opt,name=command_id,json=commandId,proto3" json:"command_id,omitempty"`
	Error                string   `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
	INTERNALTopic        string   `protobuf:"bytes,2048,opt,name=INTERNAL_topic,json=INTERNALTopic,proto3" json:"INTERNAL_topic,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Response) Reset()         { *m = Response{} }
func (m *Response) String() string { return proto.CompactTextString(m) }
func (*Response) ProtoMessage()    {}

func (m *Response) GetCommandId() uint32 {
	if m != nil {
		return m.CommandId
	}
	return 0
}

func (m *Response) GetError() string {
	if m != nil {
		return m.Error
	}
	return ""
}

func (m *Response) GetINTERNALTopic() string {
	if m != nil {
		return m.INTERNALTopic
	}
	return ""
}

type Telemetry struct {
	VmId                 int32                 `protobuf:"varint,1,opt,name=vm_id,json=vmId,proto3" json:"vm_id,omitempty"`
	Time                 int64                 `protobuf:"varint,2,opt,name=time,proto3" json:"time,omitempty"`
	Error                *Telemetry_Error      `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	Stat                 *Telemetry_Stat       `protobuf:"bytes,4,opt,name=stat,proto3" json:"stat,omitempty"`
	Robot                *Telemetry_Robot      `protobuf:"bytes,5,opt,name=robot,proto3" json:"robot,omitempty"`
	Devices              []*Telemetry_Device   `protobuf:"bytes,6,rep,name=devices,proto3" json:"devices,omitempty"`
	Log                  []*Telemetry_LogEntry `protobuf:"bytes,7,rep,name=log,proto3" json:"log,omitempty"`
	BuildVersion         string                `protobuf:"bytes,8,opt,name=build_version,json=buildVersion,proto3" json:"build_version,omitempty"`
	XXX_NoUnkeyedLiteral struct{}              `json:"-"`
	XXX_unrecognized     []byte                `json:"-"`
	XXX_sizecache        int32                 `json:"-"`
}

func (m *Telemetry) Reset()         { *m = Telemetry{} }
func (m *Telemetry) String() string { return proto.CompactTextString(m) }
func (*Telemetry) ProtoMessage()    {}

func (m *Telemetry) GetVmId() int32 {
	if m != nil {
		return m.VmId
	}
	return 0
}

func (m *Telemetry) GetTime() int64 {
	if m != nil {
		return m.Time
	}
	return 0
}

func (m *Telemetry) GetError() *Telemetry_Error {
	if m != nil {
		return m.Error
	}
	return nil
}

func (m *Telemetry) GetStat() *Telemetry_Stat {
	if m != nil {
		return m.Stat
	}
	return nil
}

func (m *Telemetry) GetRobot() *Telemetry_Robot {
	if m != nil {
		return m.Robot
	}
	return nil
}

func (m *Telemetry) GetDevices() []*Telemetry_Device {
	if m != nil {
		return m.Devices
	}
	return nil
}

func (m *Telemetry) GetLog() []*Telemetry_LogEntry {
	if m != nil {
		return m.Log
	}
	return nil
}

func (m *Telemetry) GetBuildVersion() string {
	if m != nil {
		return m.BuildVersion
	}
	return ""
}

type Telemetry_Error struct {
	Message              string   `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
	Count                uint32   `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Error) Reset()         { *m = Telemetry_Error{} }
func (m *Telemetry_Error) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Error) ProtoMessage()    {}

func (m *Telemetry_Error) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

func (m *Telemetry_Error) GetCount() uint32 {
	if m != nil {
		return m.Count
	}
	return 0
}

type Telemetry_Stat struct {
	Received             uint64   `protobuf:"varint,1,opt,name=received,proto3" json:"received,omitempty"`
	Transmitted          uint64   `protobuf:"varint,2,opt,name=transmitted,proto3" json:"transmitted,omitempty"`
	TransmitFailed       uint64   `protobuf:"varint,3,opt,name=transmit_failed,json=transmitFailed,proto3" json:"transmit_failed,omitempty"`
	BusOff               uint64   `protobuf:"varint,4,opt,name=bus_off,json=busOff,proto3" json:"bus_off,omitempty"`
	ArbitrationLost      uint64   `protobuf:"varint,5,opt,name=arbitration_lost,json=arbitrationLost,proto3" json:"arbitration_lost,omitempty"`
	RxQueueFull          uint64   `protobuf:"varint,6,opt,name=rx_queue_full,json=rxQueueFull,proto3" json:"rx_queue_full,omitempty"`
	TxQueueFull          uint64   `protobuf:"varint,7,opt,name=tx_queue_full,json=txQueueFull,proto3" json:"tx_queue_full,omitempty"`
	BusError             uint64   `protobuf:"varint,8,opt,name=bus_error,json=busError,proto3" json:"bus_error,omitempty"`
	Recovery             uint64   `protobuf:"varint,9,opt,name=recovery,proto3" json:"recovery,omitempty"`
	Skipped              uint64   `protobuf:"varint,10,opt,name=skipped,proto3" json:"skipped,omitempty"`
	UptimeSec            uint64   `protobuf:"varint,11,opt,name=uptime_sec,json=uptimeSec,proto3" json:"uptime_sec,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Stat) Reset()         { *m = Telemetry_Stat{} }
func (m *Telemetry_Stat) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Stat) ProtoMessage()    {}

func (m *Telemetry_Stat) GetReceived() uint64 {
	if m != nil {
		return m.Received
	}
	return 0
}

func (m *Telemetry_Stat) GetTransmitted() uint64 {
	if m != nil {
		return m.Transmitted
	}
	return 0
}

func (m *Telemetry_Stat) GetTransmitFailed() uint64 {
	if m != nil {
		return m.TransmitFailed
	}
	return 0
}

func (m *Telemetry_Stat) GetBusOff() uint64 {
	if m != nil {
		return m.BusOff
	}
	return 0
}

func (m *Telemetry_Stat) GetArbitrationLost() uint64 {
	if m != nil {
		return m.ArbitrationLost
	}
	return 0
}

func (m *Telemetry_Stat) GetRxQueueFull() uint64 {
	if m != nil {
		return m.RxQueueFull
	}
	return 0
}

func (m *Telemetry_Stat) GetTxQueueFull() uint64 {
	if m != nil {
		return m.TxQueueFull
	}
	return 0
}

func (m *Telemetry_Stat) GetBusError() uint64 {
	if m != nil {
		return m.BusError
	}
	return 0
}

func (m *Telemetry_Stat) GetRecovery() uint64 {
	if m != nil {
		return m.Recovery
	}
	return 0
}

func (m *Telemetry_Stat) GetSkipped() uint64 {
	if m != nil {
		return m.Skipped
	}
	return 0
}

func (m *Telemetry_Stat) GetUptimeSec() uint64 {
	if m != nil {
		return m.UptimeSec
	}
	return 0
}

type Telemetry_Robot struct {
	State                State    `protobuf:"varint,1,opt,name=state,proto3,enum=tele.State" json:"state,omitempty"`
	Enabled              bool     `protobuf:"varint,2,opt,name=enabled,proto3" json:"enabled,omitempty"`
	HeartbeatActive      bool     `protobuf:"varint,3,opt,name=heartbeat_active,json=heartbeatActive,proto3" json:"heartbeat_active,omitempty"`
	SinceMs              int64    `protobuf:"varint,4,opt,name=since_ms,json=sinceMs,proto3" json:"since_ms,omitempty"`
	BusHealth            string   `protobuf:"bytes,5,opt,name=bus_health,json=busHealth,proto3" json:"bus_health,omitempty"`
	DeviceNumber         uint32   `protobuf:"varint,6,opt,name=device_number,json=deviceNumber,proto3" json:"device_number,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Robot) Reset()         { *m = Telemetry_Robot{} }
func (m *Telemetry_Robot) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Robot) ProtoMessage()    {}

func (m *Telemetry_Robot) GetState() State {
	if m != nil {
		return m.State
	}
	return State_Invalid
}

func (m *Telemetry_Robot) GetEnabled() bool {
	if m != nil {
		return m.Enabled
	}
	return false
}

func (m *Telemetry_Robot) GetHeartbeatActive() bool {
	if m != nil {
		return m.HeartbeatActive
	}
	return false
}

func (m *Telemetry_Robot) GetSinceMs() int64 {
	if m != nil {
		return m.SinceMs
	}
	return 0
}

func (m *Telemetry_Robot) GetBusHealth() string {
	if m != nil {
		return m.BusHealth
	}
	return ""
}

func (m *Telemetry_Robot) GetDeviceNumber() uint32 {
	if m != nil {
		return m.DeviceNumber
	}
	return 0
}

type Telemetry_Device struct {
	Id                   uint32   `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Extended             bool     `protobuf:"varint,2,opt,name=extended,proto3" json:"extended,omitempty"`
	DeviceType           uint32   `protobuf:"varint,3,opt,name=device_type,json=deviceType,proto3" json:"device_type,omitempty"`
	Manufacturer         uint32   `protobuf:"varint,4,opt,name=manufacturer,proto3" json:"manufacturer,omitempty"`
	Api                  uint32   `protobuf:"varint,5,opt,name=api,proto3" json:"api,omitempty"`
	DeviceNumber         uint32   `protobuf:"varint,6,opt,name=device_number,json=deviceNumber,proto3" json:"device_number,omitempty"`
	Count                uint64   `protobuf:"varint,7,opt,name=count,proto3" json:"count,omitempty"`
	FirstSeen            int64    `protobuf:"varint,8,opt,name=first_seen,json=firstSeen,proto3" json:"first_seen,omitempty"`
	LastSeen             int64    `protobuf:"varint,9,opt,name=last_seen,json=lastSeen,proto3" json:"last_seen,omitempty"`
	LastData             []byte   `protobuf:"bytes,10,opt,name=last_data,json=lastData,proto3" json:"last_data,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_Device) Reset()         { *m = Telemetry_Device{} }
func (m *Telemetry_Device) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Device) ProtoMessage()    {}

func (m *Telemetry_Device) GetId() uint32 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Telemetry_Device) GetExtended() bool {
	if m != nil {
		return m.Extended
	}
	return false
}

func (m *Telemetry_Device) GetDeviceType() uint32 {
	if m != nil {
		return m.DeviceType
	}
	return 0
}

func (m *Telemetry_Device) GetManufacturer() uint32 {
	if m != nil {
		return m.Manufacturer
	}
	return 0
}

func (m *Telemetry_Device) GetApi() uint32 {
	if m != nil {
		return m.Api
	}
	return 0
}

func (m *Telemetry_Device) GetDeviceNumber() uint32 {
	if m != nil {
		return m.DeviceNumber
	}
	return 0
}

func (m *Telemetry_Device) GetCount() uint64 {
	if m != nil {
		return m.Count
	}
	return 0
}

func (m *Telemetry_Device) GetFirstSeen() int64 {
	if m != nil {
		return m.FirstSeen
	}
	return 0
}

func (m *Telemetry_Device) GetLastSeen() int64 {
	if m != nil {
		return m.LastSeen
	}
	return 0
}

func (m *Telemetry_Device) GetLastData() []byte {
	if m != nil {
		return m.LastData
	}
	return nil
}

type Telemetry_LogEntry struct {
	Time                 int64    `protobuf:"varint,1,opt,name=time,proto3" json:"time,omitempty"`
	Tx                   bool     `protobuf:"varint,2,opt,name=tx,proto3" json:"tx,omitempty"`
	Id                   uint32   `protobuf:"varint,3,opt,name=id,proto3" json:"id,omitempty"`
	Extended             bool     `protobuf:"varint,4,opt,name=extended,proto3" json:"extended,omitempty"`
	Data                 []byte   `protobuf:"bytes,5,opt,name=data,proto3" json:"data,omitempty"`
	Alert                uint32   `protobuf:"varint,6,opt,name=alert,proto3" json:"alert,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Telemetry_LogEntry) Reset()         { *m = Telemetry_LogEntry{} }
func (m *Telemetry_LogEntry) String() string { return proto.CompactTextString(m) }
func (*Telemetry_LogEntry) ProtoMessage()    {}

func (m *Telemetry_LogEntry) GetTime() int64 {
	if m != nil {
		return m.Time
	}
	return 0
}

func (m *Telemetry_LogEntry) GetTx() bool {
	if m != nil {
		return m.Tx
	}
	return false
}

func (m *Telemetry_LogEntry) GetId() uint32 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *Telemetry_LogEntry) GetExtended() bool {
	if m != nil {
		return m.Extended
	}
	return false
}

func (m *Telemetry_LogEntry) GetData() []byte {
	if m != nil {
		return m.Data
	}
	return nil
}

func (m *Telemetry_LogEntry) GetAlert() uint32 {
	if m != nil {
		return m.Alert
	}
	return 0
}

func init() {
	proto.RegisterEnum("tele.State", State_name, State_value)
	proto.RegisterEnum("tele.Command_Uptime", Command_Uptime_name, Command_Uptime_value)
	proto.RegisterType((*Command)(nil), "tele.Command")
	proto.RegisterType((*Command_ArgReport)(nil), "tele.Command.ArgReport")
	proto.RegisterType((*Command_ArgClearLog)(nil), "tele.Command.ArgClearLog")
	proto.RegisterType((*Command_ArgResetStats)(nil), "tele.Command.ArgResetStats")
	proto.RegisterType((*Command_ArgResetDevices)(nil), "tele.Command.ArgResetDevices")
	proto.RegisterType((*Command_ArgSendFrame)(nil), "tele.Command.ArgSendFrame")
	proto.RegisterType((*Command_ArgSetDeviceNumber)(nil), "tele.Command.ArgSetDeviceNumber")
	proto.RegisterType((*Response)(nil), "tele.Response")
	proto.RegisterType((*Telemetry)(nil), "tele.Telemetry")
	proto.RegisterType((*Telemetry_Error)(nil), "tele.Telemetry.Error")
	proto.RegisterType((*Telemetry_Stat)(nil), "tele.Telemetry.Stat")
	proto.RegisterType((*Telemetry_Robot)(nil), "tele.Telemetry.Robot")
	proto.RegisterType((*Telemetry_Device)(nil), "tele.Telemetry.Device")
	proto.RegisterType((*Telemetry_LogEntry)(nil), "tele.Telemetry.LogEntry")
}
