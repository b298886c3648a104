// Package frc encodes and decodes 29-bit FRC CAN identifiers.
//
// Bit layout shared by all variants:
//
//	[28:24] device type
//	[23:16] manufacturer
//	[15:6]  API (10 bits), or class [15:10] + index [9:6]
//	[5:0]   device number
//
// Two incompatible interpretations of the API bits exist in the field.
// Pick one Layout per deployment, they never convert implicitly.
package frc

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

const (
	IDMask uint32 = 0x1fffffff

	DeviceTypeMask   = 0x1f
	ManufacturerMask = 0xff
	APIMask          = 0x3ff
	APIClassMask     = 0x3f
	APIIndexMask     = 0x0f
	DeviceNumberMask = 0x3f

	MaxDeviceNumber = DeviceNumberMask
)

const (
	shiftDeviceType   = 24
	shiftManufacturer = 16
	shiftAPI          = 6
	shiftAPIClass     = 10
	shiftAPIIndex     = 6
)

type Layout uint8

const (
	LayoutInvalid Layout = iota
	// API is one 10-bit field.
	LayoutAPI10
	// API is split into 6-bit class and 4-bit index.
	LayoutClassIndex
)

func (l Layout) String() string {
	switch l {
	case LayoutAPI10:
		return "api10"
	case LayoutClassIndex:
		return "class_index"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "api10":
		return LayoutAPI10, nil
	case "class_index", "class-index":
		return LayoutClassIndex, nil
	}
	return LayoutInvalid, errors.NotValidf("frc layout=%q", s)
}

// Fields of identifier.
// With LayoutAPI10 only API is meaningful.
// With LayoutClassIndex only APIClass and APIIndex are meaningful.
type Fields struct {
	DeviceType   uint8
	Manufacturer uint8
	API          uint16
	APIClass     uint8
	APIIndex     uint8
	DeviceNumber uint8
}

func (f Fields) String() string {
	return fmt.Sprintf("type=%s mfr=%s api=0x%03x (class=%d index=%d) num=%d",
		DeviceTypeName(f.DeviceType), ManufacturerName(f.Manufacturer),
		f.API, f.APIClass, f.APIIndex, f.DeviceNumber)
}

// Decode is total over uint32; bits above 28 are ignored.
// Only the API view of this layout is filled, the other one stays zero.
func (l Layout) Decode(id uint32) Fields {
	id &= IDMask
	api := uint16((id >> shiftAPI) & APIMask)
	f := Fields{
		DeviceType:   uint8((id >> shiftDeviceType) & DeviceTypeMask),
		Manufacturer: uint8((id >> shiftManufacturer) & ManufacturerMask),
		DeviceNumber: uint8(id & DeviceNumberMask),
	}
	switch l {
	case LayoutClassIndex:
		f.APIClass = uint8((id >> shiftAPIClass) & APIClassMask)
		f.APIIndex = uint8((id >> shiftAPIIndex) & APIIndexMask)
	default:
		f.API = api
	}
	return f
}

// Encode masks every field to its width, overflow never leaks into neighbours.
func (l Layout) Encode(f Fields) uint32 {
	id := uint32(f.DeviceType&DeviceTypeMask)<<shiftDeviceType |
		uint32(f.Manufacturer&ManufacturerMask)<<shiftManufacturer |
		uint32(f.DeviceNumber&DeviceNumberMask)
	switch l {
	case LayoutClassIndex:
		id |= uint32(f.APIClass&APIClassMask)<<shiftAPIClass |
			uint32(f.APIIndex&APIIndexMask)<<shiftAPIIndex
	default:
		id |= uint32(f.API&APIMask) << shiftAPI
	}
	return id
}

// APIKey is the value classification tables are keyed by: API for api10, class for class_index.
func (l Layout) APIKey(f Fields) uint16 {
	if l == LayoutClassIndex {
		return uint16(f.APIClass)
	}
	return f.API
}

// APIValue is inverse of WithAPI: 10-bit api regardless of layout.
func (l Layout) APIValue(f Fields) uint16 {
	if l == LayoutClassIndex {
		return uint16(f.APIClass&APIClassMask)<<4 | uint16(f.APIIndex&APIIndexMask)
	}
	return f.API & APIMask
}

// Signature matches identifiers by device type and manufacturer.
type Signature struct {
	DeviceType   uint8
	Manufacturer uint8
}

func (s Signature) Match(f Fields) bool {
	return f.DeviceType == s.DeviceType&DeviceTypeMask && f.Manufacturer == s.Manufacturer
}

var (
	ControllerSignature = Signature{DeviceType: DeviceTypeRobotController, Manufacturer: ManufacturerNI}
	MonitorSignature    = Signature{DeviceType: DeviceTypeMiscellaneous, Manufacturer: ManufacturerTeamUse}
)

// WithAPI sets 10-bit api value in the fields used by layout.
// For class_index the upper 6 bits become class and lower 4 bits index.
func (l Layout) WithAPI(f Fields, api uint16) Fields {
	api &= APIMask
	if l == LayoutClassIndex {
		f.APIClass = uint8(api >> 4)
		f.APIIndex = uint8(api & APIIndexMask)
		f.API = 0
	} else {
		f.API = api
		f.APIClass, f.APIIndex = 0, 0
	}
	return f
}
