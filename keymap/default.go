package keymap

// DefaultRules is a compiled-in rule table covering the arrow keys,
// Home/End, Page Up/Down, Insert/Delete, and F1-F12, in both normal
// and DECCKM application-cursor-key mode, so the keymap package is
// usable without a caller-supplied rule file; pass it to Compile
// directly, or use it as a starting point for a custom one.
const DefaultRules = `
# cursor keys: normal mode uses CSI, DECCKM application mode uses SS3
up -> emit code.CSI "A";
flag.app_cursor_keys=1 up -> emit code.SS3 "A";
down -> emit code.CSI "B";
flag.app_cursor_keys=1 down -> emit code.SS3 "B";
right -> emit code.CSI "C";
flag.app_cursor_keys=1 right -> emit code.SS3 "C";
left -> emit code.CSI "D";
flag.app_cursor_keys=1 left -> emit code.SS3 "D";
home -> emit code.CSI "H";
flag.app_cursor_keys=1 home -> emit code.SS3 "H";
end -> emit code.CSI "F";
flag.app_cursor_keys=1 end -> emit code.SS3 "F";

# editing keys
page_up -> emit code.CSI "5~";
page_down -> emit code.CSI "6~";
insert -> emit code.CSI "2~";
delete -> emit code.CSI "3~";

# function keys
f1 -> emit code.SS3 "P";
f2 -> emit code.SS3 "Q";
f3 -> emit code.SS3 "R";
f4 -> emit code.SS3 "S";
f5 -> emit code.CSI "15~";
f6 -> emit code.CSI "17~";
f7 -> emit code.CSI "18~";
f8 -> emit code.CSI "19~";
f9 -> emit code.CSI "20~";
f10 -> emit code.CSI "21~";
f11 -> emit code.CSI "23~";
f12 -> emit code.CSI "24~";

# clipboard
control+roman_c -> copy;
control+roman_v -> paste;
`
