package config

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Well-known slot keys used outside the validator.
const (
	KeySecurityPin        = "security_pin"
	KeyPairingModeTimeout = "pairing_mode_timeout"
)

// PinFingerprint returns a short, stable digest of a security PIN for logs
// and state files, which never carry the PIN in clear text.
func PinFingerprint(pin uint16) string {
	sum := blake2b.Sum256([]byte("nuki-pin:" + strconv.FormatUint(uint64(pin), 10)))
	return "blake2b:" + hex.EncodeToString(sum[:8])
}
