// Package can is the bus transport: frame type, Bus interface, SocketCAN and mock drivers.
package can

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/canmon/helpers"
)

const MaxDataLen = 8

// Linux can_frame id flags, also used by github.com/FabianPetersen/can.
const (
	MaskEff   uint32 = 0x80000000
	MaskRtr   uint32 = 0x40000000
	MaskErr   uint32 = 0x20000000
	MaskExtID uint32 = 0x1fffffff
	MaskStdID uint32 = 0x000007ff
)

// Frame is a value type, Data is copied with it.
// Non-zero Alert marks synthetic frame produced from controller error report.
type Frame struct {
	ID       uint32
	Extended bool
	RTR      bool
	Len      uint8
	Data     [MaxDataLen]byte
	Alert    Alert
}

func NewFrame(id uint32, extended bool, data []byte) (Frame, error) {
	if len(data) > MaxDataLen {
		return Frame{}, errors.NotValidf("can frame data length=%d", len(data))
	}
	if extended && id > MaskExtID {
		return Frame{}, errors.NotValidf("can extended id=%08x", id)
	}
	if !extended && id > MaskStdID {
		return Frame{}, errors.NotValidf("can standard id=%03x", id)
	}
	f := Frame{ID: id, Extended: extended, Len: uint8(len(data))}
	copy(f.Data[:], data)
	return f, nil
}

func MustFrame(id uint32, extended bool, data []byte) Frame {
	f, err := NewFrame(id, extended, data)
	if err != nil {
		panic(err)
	}
	return f
}

func AlertFrame(a Alert) Frame { return Frame{Alert: a} }

// Payload returns copy of meaningful data bytes.
func (f Frame) Payload() []byte {
	n := f.Len
	if n > MaxDataLen {
		n = MaxDataLen
	}
	b := make([]byte, n)
	copy(b, f.Data[:n])
	return b
}

func (f Frame) IsAlert() bool { return f.Alert != 0 }

// String is candump compact format: 0A081801#0102, 123#R, alert=bus-off
func (f Frame) String() string {
	if f.IsAlert() {
		return "alert=" + f.Alert.String()
	}
	var id string
	if f.Extended {
		id = fmt.Sprintf("%08X", f.ID&MaskExtID)
	} else {
		id = fmt.Sprintf("%03X", f.ID&MaskStdID)
	}
	if f.RTR {
		return id + "#R"
	}
	return id + "#" + strings.ToUpper(hex.EncodeToString(f.Payload()))
}

// ParseFrame accepts candump compact format ID#DATA.
// ID longer than 3 hex digits or above 0x7ff is extended.
func ParseFrame(s string) (Frame, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "#", 2)
	if len(parts) != 2 || parts[0] == "" {
		return Frame{}, errors.NotValidf("can frame=%q expected ID#DATA", s)
	}
	return ParseFrameParts(parts[0], parts[1])
}

func ParseFrameParts(idText, dataText string) (Frame, error) {
	idText = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(idText), "0x"), "0X")
	id, err := strconv.ParseUint(idText, 16, 32)
	if err != nil {
		return Frame{}, errors.NotValidf("can id=%q", idText)
	}
	extended := len(idText) > 3 || uint32(id) > MaskStdID
	dataText = strings.TrimSpace(dataText)
	if strings.EqualFold(dataText, "R") {
		f, err := NewFrame(uint32(id), extended, nil)
		f.RTR = true
		return f, err
	}
	data, err := helpers.ParseHex(dataText)
	if err != nil {
		return Frame{}, errors.NotValidf("can data=%q", dataText)
	}
	return NewFrame(uint32(id), extended, data)
}
