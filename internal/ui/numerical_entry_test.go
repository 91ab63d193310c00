package ui_test

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-birthdays/internal/ui"
)

func TestNumericalEntry_TypedRune(t *testing.T) {
	entry := ui.NewNumericalEntry(0)
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Digit_Five", '5', true},
		{"Letter_a", 'a', false},
		{"Letter_Z", 'Z', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")
			test.Type(entry, string(tt.input))

			if tt.accepted {
				assert.Equal(t, string(tt.input), entry.Text)
			} else {
				assert.Empty(t, entry.Text)
			}
		})
	}
}

func TestNumericalEntry_MaxDigits(t *testing.T) {
	entry := ui.NewNumericalEntry(5)
	window := test.NewWindow(entry)
	defer window.Close()

	test.Type(entry, "1234567")
	assert.Equal(t, "12345", entry.Text)
}

type clipboard struct{ content string }

func (c *clipboard) Content() string     { return c.content }
func (c *clipboard) SetContent(s string) { c.content = s }

func TestNumericalEntry_PasteKeepsDigits(t *testing.T) {
	entry := ui.NewNumericalEntry(5)
	window := test.NewWindow(entry)
	defer window.Close()

	entry.TypedShortcut(&fyne.ShortcutPaste{Clipboard: &clipboard{content: "port: 80-80 and 123"}})

	assert.Equal(t, "80801", entry.Text)
}

func TestNumericalEntry_Keyboard(t *testing.T) {
	assert.Equal(t, mobile.NumberKeyboard, ui.NewNumericalEntry(0).Keyboard())
}

// SetText bypasses the filter; the settings form validates separately.
func TestNumericalEntry_DirectSetText(t *testing.T) {
	entry := ui.NewNumericalEntry(0)
	entry.SetText("abc")
	assert.Equal(t, "abc", entry.Text)
}
