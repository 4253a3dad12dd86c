package lock

import "fmt"

// LockState is the lock's own state as reported over BLE.
type LockState uint8

// Protocol lock states.
const (
	LockStateUncalibrated    LockState = 0x00
	LockStateLocked          LockState = 0x01
	LockStateUnlocking       LockState = 0x02
	LockStateUnlocked        LockState = 0x03
	LockStateLocking         LockState = 0x04
	LockStateUnlatched       LockState = 0x05
	LockStateUnlockedLockNGo LockState = 0x06
	LockStateUnlatching      LockState = 0x07
	LockStateCalibration     LockState = 0xFC
	LockStateBootRun         LockState = 0xFD
	LockStateMotorBlocked    LockState = 0xFE
	LockStateUndefined       LockState = 0xFF
)

// State is the lock entity's published state.
type State uint8

const (
	StateNone State = iota
	StateLocked
	StateUnlocked
	StateJammed
	StateLocking
	StateUnlocking
)

var stateNames = []string{"NONE", "LOCKED", "UNLOCKED", "JAMMED", "LOCKING", "UNLOCKING"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// ToState maps a protocol lock state to the entity state.
func ToState(ls LockState) State {
	switch ls {
	case LockStateLocked:
		return StateLocked
	case LockStateUnlocked, LockStateUnlatched, LockStateUnlockedLockNGo:
		return StateUnlocked
	case LockStateMotorBlocked:
		return StateJammed
	case LockStateLocking:
		return StateLocking
	case LockStateUnlocking, LockStateUnlatching:
		return StateUnlocking
	default:
		return StateNone
	}
}

// DoorSensorState is the door sensor reading.
type DoorSensorState uint8

// Door sensor states.
const (
	DoorUnavailable  DoorSensorState = 0x00
	DoorDeactivated  DoorSensorState = 0x01
	DoorClosed       DoorSensorState = 0x02
	DoorOpened       DoorSensorState = 0x03
	DoorStateUnknown DoorSensorState = 0x04
	DoorCalibrating  DoorSensorState = 0x05
)

// DoorOpen maps the door state to the door_sensor binary sensor: only a
// closed door is false.
func DoorOpen(ds DoorSensorState) bool {
	return ds != DoorClosed
}

// String returns the door_sensor_state text.
func (ds DoorSensorState) String() string {
	switch ds {
	case DoorUnavailable:
		return "unavailable"
	case DoorDeactivated:
		return "deactivated"
	case DoorClosed:
		return "closed"
	case DoorOpened:
		return "opened"
	case DoorStateUnknown:
		return "unknown"
	case DoorCalibrating:
		return "calibrating"
	default:
		return "undefined"
	}
}

// Action is a lock action sent to the protocol.
type Action uint8

// Lock actions.
const (
	ActionUnlock         Action = 0x01
	ActionLock           Action = 0x02
	ActionUnlatch        Action = 0x03
	ActionLockNGo        Action = 0x04
	ActionLockNGoUnlatch Action = 0x05
	ActionFullLock       Action = 0x06
)

func (a Action) String() string {
	switch a {
	case ActionUnlock:
		return "unlock"
	case ActionLock:
		return "lock"
	case ActionUnlatch:
		return "unlatch"
	case ActionLockNGo:
		return "lock_n_go"
	case ActionLockNGoUnlatch:
		return "lock_n_go_unlatch"
	case ActionFullLock:
		return "full_lock"
	default:
		return fmt.Sprintf("action(%d)", a)
	}
}

// PinState is the validation state of the security PIN.
type PinState uint8

const (
	PinNotSet PinState = iota
	PinValidationPending
	PinValid
	PinInvalid
)

var pinStateNames = []string{"Not set", "Validation pending", "Valid", "Invalid"}

// String returns the pin_state text.
func (p PinState) String() string {
	if int(p) < len(pinStateNames) {
		return pinStateNames[p]
	}
	return "Unknown"
}

// KeyTurnerState is the status snapshot the protocol reports.
type KeyTurnerState struct {
	LockState             LockState
	DoorSensorState       DoorSensorState
	BatteryCritical       bool
	BatteryPercent        uint8
	KeypadBatteryCritical bool
	// SignalStrength is the BLE RSSI in dBm.
	SignalStrength int
}
