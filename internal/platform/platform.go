// SPDX-License-Identifier: MPL-2.0

// Package platform holds file naming rules that differ between operating
// systems. Generated projects are checked against all of them so they can
// be cloned anywhere.
package platform

import "strings"

// windowsReservedNames are device names Windows refuses as file names,
// whatever the extension.
var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
	"LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName reports whether name is a Windows device name.
// Case and everything from the first dot on are ignored, so "con.txt" and
// "Nul.tar.gz" are reserved too.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(strings.ToUpper(strings.TrimSpace(name)), ".")
	_, ok := windowsReservedNames[base]
	return ok
}

// ReservedSegment returns the first slash- or backslash-separated element
// of p that is a Windows device name, or "" when there is none.
func ReservedSegment(p string) string {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if IsWindowsReservedName(seg) {
			return seg
		}
	}
	return ""
}
