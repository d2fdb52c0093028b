package keymap

import (
	"strconv"
	"strings"

	"keymatrix-go/errcode"
	"keymatrix-go/keycode"
)

// ParseAction parses one keymap cell:
//
//	NO, XXXXXXX, ____   no-op
//	TRNS, _______       transparent
//	MO(n)               hold layer n
//	TG(n)               toggle layer n
//	MACRO(a,b,...)      tap each step in order
//	LSFT, RALT, ...     modifier
//	A, N1, F2, ...      key
//
// An optional "KC." prefix is accepted on every form.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "KC.")
	switch s {
	case "", "NO", "XXXXXXX", "____":
		return NoOp(), nil
	case "TRNS", "_______":
		return Transparent(), nil
	}

	if name, arg, ok := call(s); ok {
		switch name {
		case "MO", "TG":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 || n > 255 {
				return Action{}, errcode.Wrap(errcode.UnknownLayer, "parse", s, nil)
			}
			if name == "MO" {
				return Hold(uint8(n)), nil
			}
			return Toggle(uint8(n)), nil
		case "MACRO":
			var steps []Action
			for _, part := range splitTop(arg) {
				a, err := ParseAction(part)
				if err != nil {
					return Action{}, err
				}
				steps = append(steps, a)
			}
			return Macro(steps...), nil
		}
		return Action{}, errcode.Wrap(errcode.UnknownKeycode, "parse", s, nil)
	}

	c, ok := keycode.Parse(s)
	if !ok {
		return Action{}, errcode.Wrap(errcode.UnknownKeycode, "parse", s, nil)
	}
	if c.IsModifier() {
		return Mod(c), nil
	}
	return Key(c), nil
}

// call splits "NAME(args)".
func call(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

// splitTop splits on commas that are not nested inside parentheses.
func splitTop(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" || len(out) > 0 {
		out = append(out, s[start:])
	}
	return out
}
