// Package keymap compiles a declarative textual rule language into an
// indexed matcher that translates key-press sequences into the byte
// sequences a terminal sends for them.
package keymap

// ModMask is a bitmask of modifier keys held during a key press.
type ModMask uint8

const (
	ModShift ModMask = 1 << iota
	ModControl
	ModAlt
	ModSuper
	ModCapsLock
	ModNumLock
)

var modNames = map[string]ModMask{
	"shift":    ModShift,
	"control":  ModControl,
	"ctrl":     ModControl,
	"alt":      ModAlt,
	"option":   ModAlt,
	"super":    ModSuper,
	"command":  ModSuper,
	"ctrl_cmd": ModControl,
	"capslock": ModCapsLock,
	"numlock":  ModNumLock,
}

// codeNames maps a code.X symbol to the bytes it introduces.
var codeNames = map[string]string{
	"CSI": "\x1b[",
	"SS2": "\x1bN",
	"SS3": "\x1bO",
}

// charNames maps a char.X symbol (and its caret alias) to its C0/DEL
// byte value.
var charNames = map[string]byte{
	"NUL": 0x00, "^@": 0x00,
	"SOH": 0x01, "^A": 0x01,
	"STX": 0x02, "^B": 0x02,
	"ETX": 0x03, "^C": 0x03,
	"EOT": 0x04, "^D": 0x04,
	"ENQ": 0x05, "^E": 0x05,
	"ACK": 0x06, "^F": 0x06,
	"BEL": 0x07, "^G": 0x07,
	"BS": 0x08, "^H": 0x08,
	"HT": 0x09, "^I": 0x09,
	"LF": 0x0A, "^J": 0x0A,
	"VT": 0x0B, "^K": 0x0B,
	"FF": 0x0C, "^L": 0x0C,
	"CR": 0x0D, "^M": 0x0D,
	"SO": 0x0E, "^N": 0x0E,
	"SI": 0x0F, "^O": 0x0F,
	"DLE": 0x10, "^P": 0x10,
	"DC1": 0x11, "^Q": 0x11,
	"DC2": 0x12, "^R": 0x12,
	"DC3": 0x13, "^S": 0x13,
	"DC4": 0x14, "^T": 0x14,
	"NAK": 0x15, "^U": 0x15,
	"SYN": 0x16, "^V": 0x16,
	"ETB": 0x17, "^W": 0x17,
	"CAN": 0x18, "^X": 0x18,
	"EM": 0x19, "^Y": 0x19,
	"SUB": 0x1A, "^Z": 0x1A,
	"ESC": 0x1B, "^[": 0x1B,
	"FS": 0x1C, "^\\": 0x1C,
	"GS": 0x1D, "^]": 0x1D,
	"RS": 0x1E, "^^": 0x1E,
	"US": 0x1F, "^_": 0x1F,
	"DEL": 0x7F, "^?": 0x7F,
}

// flagNames maps a flag.X symbol to the name Translate's flagIsSet
// callback is queried with; kept as an identity table so the textual
// rule language and the caller's flag-name vocabulary can diverge
// without touching the grammar.
var flagNames = map[string]string{
	"app_cursor_keys":        "app_cursor_keys",
	"auto_wrap":              "auto_wrap",
	"cursor_enable":          "cursor_enable",
	"alt_keypad_mode":        "alt_keypad_mode",
	"backarrow_sends_delete": "backarrow_sends_delete",
	"blinking_cursor":        "blinking_cursor",
	"eight_bit_mode":         "eight_bit_mode",
	"alt_screen":             "alt_screen",
	"save_cursor":            "save_cursor",
	"bracketed_paste":        "bracketed_paste",
}

// keyNames is the set of recognized named keys, grounded on
// translate.cc's tty_sym_key table. Letters are roman_a..roman_z,
// digits are digit_0..digit_9, and punctuation and other keys spell
// out their name (comma, page_up, ...).
var keyNames = map[string]bool{
	"space": true, "apostrophe": true, "comma": true, "minus": true,
	"period": true, "slash": true, "semicolon": true, "equal": true,
	"left_bracket": true, "backslash": true, "right_bracket": true,
	"grave_accent": true,
	"insert": true, "delete": true, "right": true, "left": true,
	"down": true, "up": true, "page_up": true, "page_down": true,
	"home": true, "end": true,
	"left_shift": true, "left_control": true, "left_alt": true, "left_super": true,
	"right_shift": true, "right_control": true, "right_alt": true, "right_super": true,
}

func init() {
	for c := '0'; c <= '9'; c++ {
		keyNames["digit_"+string(c)] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		keyNames["roman_"+string(c)] = true
	}
	for i := 1; i <= 24; i++ {
		keyNames[fKeyName(i)] = true
	}
}

func fKeyName(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return "f" + string(digits[n])
	}
	return "f" + string(digits[n/10]) + string(digits[n%10])
}
