// Package gcode provides the minimal G-code parsing needed to validate
// command lines locally before they are sent to a printer.
package gcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is a single letter/argument pair within a block, e.g. G28 or
// S210.5.
type Word struct {
	W   byte
	Arg float64
}

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

func (w Word) String() string {
	return string(w.W) + formatFloat(w.Arg, 3)
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	return strings.TrimRight(s, ".")
}

// ParseLine parses one line into its words. Semicolon and parenthesis
// comments are stripped; a blank or comment-only line parses to nil.
func ParseLine(line string) ([]Word, error) {
	code, err := stripComments(line)
	if err != nil {
		return nil, err
	}

	var words []Word
	rest := strings.TrimSpace(code)
	for rest != "" {
		c := rest[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		w := Word{W: c}
		if !w.IsValid() {
			return nil, fmt.Errorf("unexpected character %q", rest[0])
		}
		rest = rest[1:]

		n := numberLen(rest)
		if n == 0 {
			return nil, fmt.Errorf("word %q has no argument", string(w.W))
		}
		arg, err := strconv.ParseFloat(rest[:n], 64)
		if err != nil {
			return nil, fmt.Errorf("word %q: bad argument %q", string(w.W), rest[:n])
		}
		w.Arg = arg
		words = append(words, w)
		rest = strings.TrimSpace(rest[n:])
	}
	return words, nil
}

// CheckLine validates one command line without interpreting it.
func CheckLine(line string) error {
	_, err := ParseLine(line)
	return err
}

// Check validates a sequence of lines, stopping at the first invalid
// one.
func Check(lines []string) error {
	for _, line := range lines {
		if err := CheckLine(line); err != nil {
			return err
		}
	}
	return nil
}

func stripComments(line string) (string, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	var b strings.Builder
	depth := 0
	for _, r := range line {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", fmt.Errorf("unbalanced ')'")
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("unclosed '('")
	}
	return b.String(), nil
}

func numberLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	dot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
			i++
			continue
		}
		if c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if digits == 0 {
		return 0
	}
	return i
}
