// Package input defines the device-independent key and pointer events the
// canvas and text editor consume. Front ends translate their native events
// into these.
package input

// KeyCode identifies a non-printing key, or KeyRune for text.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// Key is a single key press.
type Key struct {
	Code  KeyCode
	Rune  rune
	Ctrl  bool
	Meta  bool // Cmd on macOS
	Alt   bool
	Shift bool
}

// Rune returns a key event for a printable character.
func Rune(r rune) Key { return Key{Code: KeyRune, Rune: r} }

// Press returns a key event for a non-printing key.
func Press(code KeyCode) Key { return Key{Code: code} }

// Command reports whether Ctrl or Cmd is held.
func (k Key) Command() bool { return k.Ctrl || k.Meta }

// Is reports whether k is the command chord for r (Ctrl+r or Cmd+r).
func (k Key) Is(r rune) bool {
	return k.Code == KeyRune && k.Command() && (k.Rune == r || k.Rune == r-'a'+'A')
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)
