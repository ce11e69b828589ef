package keymap

import "testing"

func TestCompileDefaultRulesNoErrors(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("DefaultRules should compile cleanly, got: %v", err)
	}
	if len(k.byFirstKey) == 0 {
		t.Fatal("expected at least one indexed rule")
	}
}

func TestTranslateArrowUp(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	noFlags := func(string) bool { return false }

	act := k.Translate([]KeyEvent{{Key: "up"}}, noFlags, nil, false)
	if act.Kind != ActionEmit || string(act.Bytes) != "\x1b[A" {
		t.Fatalf("normal-mode up: got %+v", act)
	}

	appMode := func(name string) bool { return name == "app_cursor_keys" }
	act = k.Translate([]KeyEvent{{Key: "up"}}, appMode, nil, false)
	if act.Kind != ActionEmit || string(act.Bytes) != "\x1bOA" {
		t.Fatalf("app-mode up: got %+v", act)
	}
}

func TestTranslateNoMatchReturnsActionNone(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	act := k.Translate([]KeyEvent{{Key: "roman_z"}}, func(string) bool { return false }, nil, false)
	if act.Kind != ActionNone {
		t.Fatalf("expected ActionNone for an unbound key, got %+v", act)
	}
}

func TestTranslateFunctionKeys(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	noFlags := func(string) bool { return false }
	cases := map[string]string{
		"f1": "\x1bOP",
		"f5": "\x1b[15~",
		"f12": "\x1b[24~",
	}
	for key, want := range cases {
		act := k.Translate([]KeyEvent{{Key: key}}, noFlags, nil, false)
		if act.Kind != ActionEmit || string(act.Bytes) != want {
			t.Errorf("%s: got %+v, want emit %q", key, act, want)
		}
	}
}

type fakeClipboard struct{ data string }

func (c *fakeClipboard) Get() string     { return c.data }
func (c *fakeClipboard) Set(data string) { c.data = data }

func TestTranslatePasteWrapsBracketed(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	clip := &fakeClipboard{data: "hello"}
	seq := []KeyEvent{{Key: "roman_v", Mods: ModControl}}
	act := k.Translate(seq, func(string) bool { return false }, clip, true)
	if act.Kind != ActionPaste {
		t.Fatalf("expected ActionPaste, got %+v", act)
	}
	want := "\x1b[200~hello\x1b[201~"
	if string(act.Bytes) != want {
		t.Fatalf("got %q, want %q", act.Bytes, want)
	}
}

func TestTranslateCopyIsCallerResolved(t *testing.T) {
	k, err := Compile(DefaultRules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	seq := []KeyEvent{{Key: "roman_c", Mods: ModControl}}
	act := k.Translate(seq, func(string) bool { return false }, nil, false)
	if act.Kind != ActionCopy {
		t.Fatalf("expected ActionCopy, got %+v", act)
	}
}

func TestCompileDropsUnknownSymbolButKeepsOtherRules(t *testing.T) {
	src := `
bogus_key -> emit code.CSI "A";
up -> emit code.CSI "A";
`
	k, err := Compile(src)
	if err == nil {
		t.Fatal("expected a non-nil error describing the unknown symbol")
	}
	act := k.Translate([]KeyEvent{{Key: "up"}}, func(string) bool { return false }, nil, false)
	if act.Kind != ActionEmit {
		t.Fatalf("expected the valid rule to still compile, got %+v", act)
	}
}

func TestCompileRecoversAfterSyntaxError(t *testing.T) {
	src := `
up ==> emit code.CSI "A";
down -> emit code.CSI "B";
`
	k, err := Compile(src)
	if err == nil {
		t.Fatal("expected an error for the malformed rule")
	}
	act := k.Translate([]KeyEvent{{Key: "down"}}, func(string) bool { return false }, nil, false)
	if act.Kind != ActionEmit || string(act.Bytes) != "\x1b[B" {
		t.Fatalf("expected recovery to still compile 'down', got %+v", act)
	}
}
