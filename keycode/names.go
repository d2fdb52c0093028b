package keycode

// names uses the short spellings common to keyboard firmware keymaps.
// Aliases map to the same code; the first spelling listed in canonical is
// what String returns.
var names = map[string]Code{
	"A": A, "B": B, "C": C, "D": D, "E": E, "F": F, "G": G, "H": H, "I": I,
	"J": J, "K": K, "L": L, "M": M, "N": N, "O": O, "P": P, "Q": Q, "R": R,
	"S": S, "T": T, "U": U, "V": V, "W": W, "X": X, "Y": Y, "Z": Z,

	"N1": N1, "N2": N2, "N3": N3, "N4": N4, "N5": N5,
	"N6": N6, "N7": N7, "N8": N8, "N9": N9, "N0": N0,

	"ENT": Enter, "ENTER": Enter,
	"ESC": Escape, "ESCAPE": Escape,
	"BSPC": Backspace, "BKSP": Backspace,
	"TAB":  Tab,
	"SPC":  Space, "SPACE": Space,
	"MINS": Minus, "MINUS": Minus,
	"EQL": Equal, "EQUAL": Equal,
	"LBRC": LeftBrace,
	"RBRC": RightBrace,
	"BSLS": Backslash,
	"NUHS": NonUSHash,
	"SCLN": Semicolon,
	"QUOT": Quote,
	"GRV":  Grave,
	"COMM": Comma, "COMMA": Comma,
	"DOT":  Dot,
	"SLSH": Slash,
	"CAPS": CapsLock,

	"F1": F1, "F2": F2, "F3": F3, "F4": F4, "F5": F5, "F6": F6,
	"F7": F7, "F8": F8, "F9": F9, "F10": F10, "F11": F11, "F12": F12,

	"PSCR": PrintScreen,
	"SLCK": ScrollLock,
	"PAUS": Pause,
	"INS":  Insert,
	"HOME": Home,
	"PGUP": PageUp,
	"DEL":  Delete,
	"END":  End,
	"PGDN": PageDown,
	"RGHT": Right, "RIGHT": Right,
	"LEFT": Left,
	"DOWN": Down,
	"UP":   Up,
	"NLCK": NumLock,
	"APP":  Application,

	"LCTL": LeftCtrl, "LCTRL": LeftCtrl,
	"LSFT": LeftShift, "LSHIFT": LeftShift,
	"LALT": LeftAlt,
	"LGUI": LeftGUI,
	"RCTL": RightCtrl, "RCTRL": RightCtrl,
	"RSFT": RightShift, "RSHIFT": RightShift,
	"RALT": RightAlt,
	"RGUI": RightGUI,
}

var canonical = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O",
	"P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"N1", "N2", "N3", "N4", "N5", "N6", "N7", "N8", "N9", "N0",
	"ENT", "ESC", "BSPC", "TAB", "SPC", "MINS", "EQL", "LBRC", "RBRC", "BSLS",
	"NUHS", "SCLN", "QUOT", "GRV", "COMM", "DOT", "SLSH", "CAPS",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"PSCR", "SLCK", "PAUS", "INS", "HOME", "PGUP", "DEL", "END", "PGDN",
	"RGHT", "LEFT", "DOWN", "UP", "NLCK", "APP",
	"LCTL", "LSFT", "LALT", "LGUI", "RCTL", "RSFT", "RALT", "RGUI",
}

var codeNames = func() map[Code]string {
	m := make(map[Code]string, len(canonical))
	for _, n := range canonical {
		m[names[n]] = n
	}
	return m
}()

// Parse resolves a key name (case-sensitive, upper case) to its usage.
func Parse(name string) (Code, bool) {
	c, ok := names[name]
	return c, ok
}
