package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// one focusable form row
type control interface {
	Label() string
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View(focused bool) string
}

// single-line text field
type textControl struct {
	label string
	input textinput.Model
}

func newTextControl(label, placeholder string, limit int) *textControl {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	return &textControl{label: label, input: ti}
}

func newPasswordControl(label string) *textControl {
	c := newTextControl(label, "", 128)
	c.input.EchoMode = textinput.EchoPassword
	c.input.EchoCharacter = '*'
	return c
}

func (c *textControl) Label() string     { return c.label }
func (c *textControl) Focus() tea.Cmd    { return c.input.Focus() }
func (c *textControl) Blur()             { c.input.Blur() }
func (c *textControl) Value() string     { return c.input.Value() }
func (c *textControl) SetValue(v string) { c.input.SetValue(v) }

func (c *textControl) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *textControl) View(bool) string {
	return c.input.View()
}

// pick one of options with left/right
type choiceControl struct {
	label   string
	options []string
	index   int
}

func newChoiceControl(label string, options []string, initial string) *choiceControl {
	c := &choiceControl{label: label, options: options}
	for i, o := range options {
		if o == initial {
			c.index = i
		}
	}
	return c
}

func (c *choiceControl) Label() string  { return c.label }
func (c *choiceControl) Focus() tea.Cmd { return nil }
func (c *choiceControl) Blur()          {}

func (c *choiceControl) Value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index]
}

func (c *choiceControl) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(c.options) == 0 {
		return nil
	}

	switch key.String() {
	case "left", "h":
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
	case "right", "l", " ":
		c.index = (c.index + 1) % len(c.options)
	}

	return nil
}

func (c *choiceControl) View(focused bool) string {
	value := c.Value()
	if focused {
		return choiceSelectedStyle.Render("< " + value + " >")
	}
	return choiceStyle.Render("  " + value)
}

// toggle any number of options; left/right moves, space toggles
type multiControl struct {
	label    string
	options  []string
	cursor   int
	selected map[string]bool
}

func newMultiControl(label string, options []string, initial ...string) *multiControl {
	c := &multiControl{label: label, options: options, selected: make(map[string]bool)}
	for _, o := range initial {
		c.selected[o] = true
	}
	return c
}

func (c *multiControl) Label() string  { return c.label }
func (c *multiControl) Focus() tea.Cmd { return nil }
func (c *multiControl) Blur()          {}

// selected options in display order
func (c *multiControl) Values() []string {
	var out []string
	for _, o := range c.options {
		if c.selected[o] {
			out = append(out, o)
		}
	}
	return out
}

func (c *multiControl) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(c.options) == 0 {
		return nil
	}

	switch key.String() {
	case "left", "h":
		c.cursor = (c.cursor - 1 + len(c.options)) % len(c.options)
	case "right", "l":
		c.cursor = (c.cursor + 1) % len(c.options)
	case " ", "x":
		o := c.options[c.cursor]
		c.selected[o] = !c.selected[o]
	}

	return nil
}

func (c *multiControl) View(focused bool) string {
	parts := make([]string, 0, len(c.options))

	for i, o := range c.options {
		mark := "[ ]"
		if c.selected[o] {
			mark = "[x]"
		}

		item := mark + " " + o
		if focused && i == c.cursor {
			parts = append(parts, choiceSelectedStyle.Render(item))
		} else {
			parts = append(parts, choiceStyle.Render(item))
		}
	}

	return strings.Join(parts, "  ")
}

// ordered controls with a single focus
type form struct {
	controls []control
	focus    int
}

func newForm(controls ...control) *form {
	f := &form{controls: controls}
	if len(controls) > 0 {
		controls[0].Focus()
	}
	return f
}

func (f *form) focused() control {
	if len(f.controls) == 0 {
		return nil
	}
	return f.controls[f.focus]
}

func (f *form) onLast() bool {
	return f.focus == len(f.controls)-1
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.controls) == 0 {
		return nil
	}

	f.controls[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.controls)) % len(f.controls)

	return f.controls[f.focus].Focus()
}

// inserts c at index i without moving focus off the current control
func (f *form) insert(i int, c control) {
	f.controls = append(f.controls, nil)
	copy(f.controls[i+1:], f.controls[i:])
	f.controls[i] = c

	if i <= f.focus {
		f.focus++
	}
}

// handles focus keys; everything else goes to the focused control
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		}
	}

	if c := f.focused(); c != nil {
		return c.Update(msg)
	}

	return nil
}

func (f *form) View() string {
	var b strings.Builder

	for i, c := range f.controls {
		focused := i == f.focus

		label := labelStyle.Render(c.Label())
		if focused {
			label = focusedLabelStyle.Render(c.Label())
		}

		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, c.View(focused)))
		b.WriteString("\n")
	}

	return b.String()
}
