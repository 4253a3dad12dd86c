package discovery

import (
	"errors"
	"time"
)

// Service constants.
const (
	// ServiceTypePairing is advertised while pairing mode is on.
	ServiceTypePairing = "_nuki-lock._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the device's native API port.
	DefaultPort = 6053

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyDeviceID   = "id"
	TXTKeyDeviceName = "dn"
	TXTKeyRole       = "role"
	TXTKeyDeadline   = "exp"
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
)

// PairingInfo describes the pairing advertisement.
type PairingInfo struct {
	DeviceID   uint32
	DeviceName string
	// Role is the pairing role the device will use.
	Role string
	// Deadline is when pairing mode ends. Zero omits it.
	Deadline time.Time
	// Port defaults to DefaultPort.
	Port uint16
}

// InstanceName returns the DNS-SD instance name.
func (p *PairingInfo) InstanceName() string {
	name := p.DeviceName
	if name == "" {
		name = "lock"
	}
	return name + "-" + formatID(p.DeviceID)
}
