package input

import "testing"

func TestKeyIs(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		r    rune
		want bool
	}{
		{"ctrl", Key{Code: KeyRune, Rune: 'b', Ctrl: true}, 'b', true},
		{"cmd", Key{Code: KeyRune, Rune: 'b', Meta: true}, 'b', true},
		{"shifted letter", Key{Code: KeyRune, Rune: 'B', Ctrl: true, Shift: true}, 'b', true},
		{"plain rune", Rune('b'), 'b', false},
		{"alt is not a command", Key{Code: KeyRune, Rune: 'b', Alt: true}, 'b', false},
		{"other letter", Key{Code: KeyRune, Rune: 'i', Ctrl: true}, 'b', false},
		{"named key", Key{Code: KeyEnter, Ctrl: true}, 'b', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Is(tt.r); got != tt.want {
				t.Errorf("Is(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestPress(t *testing.T) {
	k := Press(KeyEnter)
	if k.Code != KeyEnter || k.Command() {
		t.Errorf("Press(KeyEnter) = %+v", k)
	}
	if !(Key{Code: KeyEnter, Meta: true}).Command() {
		t.Error("Meta should count as a command modifier")
	}
}
