// Package discovery advertises the lock over mDNS/DNS-SD while pairing
// mode is on.
//
// # Pairing service (_nuki-lock._tcp)
//
// The device registers one instance named "<device name>-<device id>" for
// the duration of the pairing window. TXT records include:
//   - id: device id
//   - dn: device name
//   - role: pairing role ("bridge" or "app")
//   - exp: window deadline as unix seconds (optional)
//
// The advertisement is driven by the runtime event bus: PairingModeOn
// registers it, PairingModeOff and Paired withdraw it.
package discovery
