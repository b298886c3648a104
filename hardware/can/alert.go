package can

import "strings"

// Alert is bitmask of bus conditions reported out of band with frames.
type Alert uint8

const (
	AlertBusOff Alert = 1 << iota
	AlertArbitrationLost
	AlertRxQueueFull
	AlertTxQueueFull
	AlertBusError
)

var alertNames = []struct {
	a    Alert
	name string
}{
	{AlertBusOff, "bus-off"},
	{AlertArbitrationLost, "arbitration-lost"},
	{AlertRxQueueFull, "rx-queue-full"},
	{AlertTxQueueFull, "tx-queue-full"},
	{AlertBusError, "bus-error"},
}

func (a Alert) Has(x Alert) bool { return a&x != 0 }

func (a Alert) String() string {
	if a == 0 {
		return "none"
	}
	parts := make([]string, 0, 2)
	for _, an := range alertNames {
		if a.Has(an.a) {
			parts = append(parts, an.name)
		}
	}
	return strings.Join(parts, ",")
}

// linux/can/error.h
const (
	errClassTxTimeout  = 0x001
	errClassLostArb    = 0x002
	errClassCtrl       = 0x004
	errClassProt       = 0x008
	errClassTrx        = 0x010
	errClassAck        = 0x020
	errClassBusOff     = 0x040
	errClassBusError   = 0x080
	errClassRestarted  = 0x100
	errCtrlRxOverflow  = 0x01
	errCtrlTxOverflow  = 0x02
	errCtrlWarnPassive = 0x3c
)

// AlertFromErrorFrame maps SocketCAN error frame class (id) and data to Alert.
// Restart notifications map to zero.
func AlertFromErrorFrame(class uint32, data [MaxDataLen]byte) Alert {
	var a Alert
	if class&errClassBusOff != 0 {
		a |= AlertBusOff
	}
	if class&errClassLostArb != 0 {
		a |= AlertArbitrationLost
	}
	if class&errClassCtrl != 0 {
		if data[1]&errCtrlRxOverflow != 0 {
			a |= AlertRxQueueFull
		}
		if data[1]&errCtrlTxOverflow != 0 {
			a |= AlertTxQueueFull
		}
		if data[1]&errCtrlWarnPassive != 0 {
			a |= AlertBusError
		}
	}
	if class&(errClassTxTimeout|errClassProt|errClassTrx|errClassAck|errClassBusError) != 0 {
		a |= AlertBusError
	}
	return a
}
