package dom

import "unicode/utf16"

// Character data offsets are counted in UTF-16 code units, the way scripts
// see string lengths.

// UTF16Length returns the length of a string in UTF-16 code units.
func UTF16Length(s string) int {
	return len(stringToUTF16(s))
}

// UTF16Substring extracts the code units [start, end) of s. Offsets are
// clamped to the string.
func UTF16Substring(s string, start, end int) string {
	units := stringToUTF16(s)
	start = min(max(start, 0), len(units))
	end = min(max(end, start), len(units))
	return string(utf16.Decode(units[start:end]))
}

func stringToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}
