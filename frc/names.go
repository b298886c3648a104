package frc

import "fmt"

const (
	DeviceTypeBroadcast         = 0x00
	DeviceTypeRobotController   = 0x01
	DeviceTypeMotorController   = 0x02
	DeviceTypeRelayController   = 0x03
	DeviceTypeGyroSensor        = 0x04
	DeviceTypeAccelerometer     = 0x05
	DeviceTypeUltrasonicSensor  = 0x06
	DeviceTypeGearToothSensor   = 0x07
	DeviceTypePowerDistribution = 0x08
	DeviceTypePneumatics        = 0x09
	DeviceTypeMiscellaneous     = 0x0a
	DeviceTypeIOBreakout        = 0x0b
	DeviceTypeFirmwareUpdate    = 0x1f
)

const (
	ManufacturerBroadcast     = 0
	ManufacturerNI            = 1
	ManufacturerLuminary      = 2
	ManufacturerDEKA          = 3
	ManufacturerCTRE          = 4
	ManufacturerREV           = 5
	ManufacturerGrapple       = 6
	ManufacturerMindSensor    = 7
	ManufacturerTeamUse       = 8
	ManufacturerKauai         = 9
	ManufacturerCopperforge   = 10
	ManufacturerPWF           = 11
	ManufacturerStudica       = 12
	ManufacturerTheThriftyBot = 13
	ManufacturerReduxRobotics = 14
	ManufacturerAndyMark      = 15
	ManufacturerVividHosting  = 16
)

// Well-known API values of LayoutAPI10, also used by this monitor's own frames.
const (
	APIStatus    uint16 = 0x060
	APIHeartbeat uint16 = 0x061
)

var deviceTypeNames = map[uint8]string{
	DeviceTypeBroadcast:         "broadcast",
	DeviceTypeRobotController:   "robot-controller",
	DeviceTypeMotorController:   "motor-controller",
	DeviceTypeRelayController:   "relay-controller",
	DeviceTypeGyroSensor:        "gyro",
	DeviceTypeAccelerometer:     "accelerometer",
	DeviceTypeUltrasonicSensor:  "ultrasonic",
	DeviceTypeGearToothSensor:   "gear-tooth",
	DeviceTypePowerDistribution: "power-distribution",
	DeviceTypePneumatics:        "pneumatics",
	DeviceTypeMiscellaneous:     "misc",
	DeviceTypeIOBreakout:        "io-breakout",
	DeviceTypeFirmwareUpdate:    "firmware-update",
}

var manufacturerNames = map[uint8]string{
	ManufacturerBroadcast:     "broadcast",
	ManufacturerNI:            "NI",
	ManufacturerLuminary:      "Luminary Micro",
	ManufacturerDEKA:          "DEKA",
	ManufacturerCTRE:          "CTR Electronics",
	ManufacturerREV:           "REV Robotics",
	ManufacturerGrapple:       "Grapple",
	ManufacturerMindSensor:    "MindSensors",
	ManufacturerTeamUse:       "team-use",
	ManufacturerKauai:         "Kauai Labs",
	ManufacturerCopperforge:   "Copperforge",
	ManufacturerPWF:           "Playing With Fusion",
	ManufacturerStudica:       "Studica",
	ManufacturerTheThriftyBot: "The Thrifty Bot",
	ManufacturerReduxRobotics: "Redux Robotics",
	ManufacturerAndyMark:      "AndyMark",
	ManufacturerVividHosting:  "Vivid-Hosting",
}

// api10 values
var apiNames = map[uint16]string{
	APIStatus:    "status",
	APIHeartbeat: "heartbeat",
}

// class_index classes, generic motor controller API classes
var apiClassNames = map[uint16]string{
	0: "voltage-control",
	1: "speed-control",
	2: "voltage-compensation",
	3: "position-control",
	4: "current-control",
	5: "status",
	6: "periodic-status",
	7: "configuration",
	8: "ack",
}

func DeviceTypeName(t uint8) string {
	if s, ok := deviceTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown type=0x%02x", t)
}

func ManufacturerName(m uint8) string {
	if s, ok := manufacturerNames[m]; ok {
		return s
	}
	return fmt.Sprintf("unknown manufacturer=0x%02x", m)
}

// APIName classifies API key of given layout, see Layout.APIKey.
func APIName(l Layout, key uint16) string {
	table := apiNames
	if l == LayoutClassIndex {
		table = apiClassNames
	}
	if s, ok := table[key]; ok {
		return s
	}
	return fmt.Sprintf("unknown api=0x%02x", key)
}

func ClassifyAPI(l Layout, f Fields) string { return APIName(l, l.APIKey(f)) }
