package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// EncodePairingTXT creates TXT records for the pairing service.
func EncodePairingTXT(info *PairingInfo) TXTRecordMap {
	txt := TXTRecordMap{
		TXTKeyDeviceID:   formatID(info.DeviceID),
		TXTKeyDeviceName: info.DeviceName,
		TXTKeyRole:       info.Role,
	}
	if !info.Deadline.IsZero() {
		txt[TXTKeyDeadline] = strconv.FormatInt(info.Deadline.Unix(), 10)
	}
	return txt
}

// DecodePairingTXT parses TXT records from the pairing service.
func DecodePairingTXT(txt TXTRecordMap) (*PairingInfo, error) {
	idStr, ok := txt[TXTKeyDeviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDeviceID)
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyDeviceID, idStr)
	}

	info := &PairingInfo{DeviceID: uint32(id)}
	if info.DeviceName, ok = txt[TXTKeyDeviceName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDeviceName)
	}
	if info.Role, ok = txt[TXTKeyRole]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyRole)
	}

	if exp, ok := txt[TXTKeyDeadline]; ok {
		sec, err := strconv.ParseInt(exp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyDeadline, exp)
		}
		info.Deadline = time.Unix(sec, 0)
	}
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value"
// strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
