package form

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Coercion reads the longest numeric prefix of the raw text and ignores
// the rest, so "12kg" is 12 and "1,000" is 1. Text with no numeric prefix
// is NaN. Infinite results are NaN as well, since neither has a JSON form.

func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// coerceFloat reads a decimal literal: optional sign, digits with an
// optional fraction, and an exponent only when digits follow the 'e'.
func coerceFloat(raw string) float64 {
	s := trimLeadingSpace(raw)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := scanDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = scanDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return math.NaN()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := scanDigits(s[j:]); n > 0 {
			i = j + n
		}
	}

	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// coerceInteger reads an optional sign and a run of decimal digits, or hex
// digits after a "0x" prefix. "2020.7" is 2020 and "2e3" is 2.
func coerceInteger(raw string) float64 {
	s := trimLeadingSpace(raw)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var v float64
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n := scanHexDigits(s[2:])
		if n == 0 {
			return math.NaN()
		}
		for _, c := range []byte(s[2 : 2+n]) {
			v = v*16 + float64(hexValue(c))
		}
	} else {
		n := scanDigits(s)
		if n == 0 {
			return math.NaN()
		}
		var err error
		if v, err = strconv.ParseFloat(s[:n], 64); err != nil {
			return math.NaN()
		}
	}

	if math.IsInf(v, 0) {
		return math.NaN()
	}
	if neg {
		v = -v
	}
	return v
}

func scanDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func scanHexDigits(s string) int {
	n := 0
	for n < len(s) && hexValue(s[n]) >= 0 {
		n++
	}
	return n
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
