package floorplan

import (
	"strconv"
)

// numberScanner tokenises SVG path data and number lists.
type numberScanner struct {
	s   string
	pos int
}

func newNumberScanner(s string) *numberScanner {
	return &numberScanner{s: s}
}

func (sc *numberScanner) done() bool {
	return sc.pos >= len(sc.s)
}

func (sc *numberScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', ',':
			sc.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// number reads one number. SVG allows "1.5.5" to mean 1.5 then .5 and
// "1-2" to mean 1 then -2, so the scan stops at the second dot or sign.
func (sc *numberScanner) number() (float64, bool) {
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits := false
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits = true
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, false
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, false
	}
	sc.pos = i
	return f, true
}

// flag reads an arc flag, which may be written without a separator.
func (sc *numberScanner) flag() (float64, bool) {
	sc.skipSeparators()
	if sc.done() {
		return 0, false
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return 0, true
	case '1':
		sc.pos++
		return 1, true
	}
	return 0, false
}

// numbers reads n numbers separated by optional separators.
func (sc *numberScanner) numbers(n int) ([]float64, bool) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sc.skipSeparators()
		f, ok := sc.number()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
