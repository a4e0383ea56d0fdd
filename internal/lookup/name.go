package lookup

import (
	"strings"
	"unicode"
)

// SplitForCorrections splits a free-form name for the corrections search
// form: first token is the last name, the remainder is the first name. A
// single-token name yields an empty first name.
func SplitForCorrections(name string) (last, first string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	last = strings.TrimSuffix(fields[0], ",")
	first = strings.Join(fields[1:], " ")
	return last, first
}

// SplitForCourts splits a corrections-sourced name ("Last, First Middle")
// into the two fields the court lookup form wants. Names that do not break
// into at least two comma-or-space-delimited parts are unusable; middle
// names beyond the first given name are discarded.
func SplitForCourts(name string) (last, first string, ok bool) {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

var soundexCodes = map[rune]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// Soundex encodes a name phonetically (letter plus three digits), used to
// match a queried surname against scraped result rows despite spelling
// variations.
func Soundex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	runes := []rune(s)
	result := []byte{byte(runes[0])}
	var previous byte
	for _, r := range runes[1:] {
		code, ok := soundexCodes[r]
		if !ok {
			continue
		}
		if code != previous {
			result = append(result, code)
		}
		previous = code
		if len(result) == 4 {
			break
		}
	}
	for len(result) < 4 {
		result = append(result, '0')
	}
	return string(result)
}
