package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"journal/internal/ui/theme"
)

// FormSubmitMsg carries the values of a confirmed form. Fields holds the
// single-line inputs by label.
type FormSubmitMsg struct {
	Purpose string
	Section string
	Fields  map[string]string
	Body    string
}

type FormCancelMsg struct{ Purpose string }

// FormSpec describes a form before it is opened. An empty Sections slice
// hides the section picker.
type FormSpec struct {
	Purpose   string
	Title     string
	Sections  []string
	Inputs    []FormInput
	BodyLabel string
	Body      string
}

type FormInput struct {
	Label       string
	Placeholder string
	Value       string
}

var formStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Form is a modal editor: an optional section picker, any number of single
// line inputs and a multi-line body. Focus order follows that layout.
type Form struct {
	spec     FormSpec
	section  int
	inputs   []textinput.Model
	body     textarea.Model
	focus    int
	visible  bool
	width    int
	errorMsg string
}

func NewForm() Form {
	return Form{}
}

func (f Form) Visible() bool { return f.visible }

func (f Form) Purpose() string { return f.spec.Purpose }

func (f *Form) SetWidth(w int) { f.width = w }

func (f *Form) Open(spec FormSpec) tea.Cmd {
	f.spec = spec
	f.section = 0
	f.errorMsg = ""
	f.inputs = make([]textinput.Model, len(spec.Inputs))
	for i, in := range spec.Inputs {
		ti := textinput.New()
		ti.Placeholder = in.Placeholder
		ti.CharLimit = 2048
		ti.SetValue(in.Value)
		f.inputs[i] = ti
	}
	ta := textarea.New()
	ta.Placeholder = spec.BodyLabel
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(spec.Body)
	f.body = ta
	f.visible = true
	f.focus = 0
	if len(spec.Sections) == 0 {
		f.focus = 1
	}
	f.resize()
	return f.applyFocus()
}

func (f *Form) Close() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.body.Blur()
}

// SetError keeps the form open and shows msg under the fields.
func (f *Form) SetError(msg string) { f.errorMsg = msg }

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			purpose := f.spec.Purpose
			f.Close()
			return f, func() tea.Msg { return FormCancelMsg{Purpose: purpose} }
		case "ctrl+s":
			submit := f.submission()
			f.Close()
			return f, func() tea.Msg { return submit }
		case "tab":
			f.focus = f.next(1)
			return f, f.applyFocus()
		case "shift+tab":
			f.focus = f.next(-1)
			return f, f.applyFocus()
		case "left", "right":
			if f.focus == 0 && len(f.spec.Sections) > 0 {
				step := 1
				if key.String() == "left" {
					step = -1
				}
				n := len(f.spec.Sections)
				f.section = (f.section + step + n) % n
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case f.focus == 0:
	case f.focus <= len(f.inputs):
		f.inputs[f.focus-1], cmd = f.inputs[f.focus-1].Update(msg)
	default:
		f.body, cmd = f.body.Update(msg)
	}
	return f, cmd
}

func (f Form) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(f.spec.Title) + "\n\n")
	if len(f.spec.Sections) > 0 {
		label := "Section  ‹ " + f.spec.Sections[f.section] + " ›"
		if f.focus == 0 {
			label = theme.Hot.Render(label)
		}
		sb.WriteString(label + "\n\n")
	}
	for i, in := range f.inputs {
		sb.WriteString(theme.Muted.Render(f.spec.Inputs[i].Label) + "\n")
		sb.WriteString(in.View() + "\n\n")
	}
	if f.spec.BodyLabel != "" {
		sb.WriteString(theme.Muted.Render(f.spec.BodyLabel) + "\n")
	}
	sb.WriteString(f.body.View() + "\n")
	if f.errorMsg != "" {
		sb.WriteString("\n" + theme.Hot.Render(f.errorMsg) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab: next field  ←/→: section  ctrl+s: save  esc: cancel"))

	w := f.width
	if w < 30 {
		w = 72
	}
	return formStyle.Width(w - 2).Render(sb.String())
}

func (f Form) submission() FormSubmitMsg {
	out := FormSubmitMsg{Purpose: f.spec.Purpose, Fields: map[string]string{}, Body: f.body.Value()}
	if len(f.spec.Sections) > 0 {
		out.Section = f.spec.Sections[f.section]
	}
	for i, in := range f.inputs {
		out.Fields[f.spec.Inputs[i].Label] = strings.TrimSpace(in.Value())
	}
	return out
}

// next cycles focus over picker (0), inputs (1..n) and body (n+1).
func (f Form) next(step int) int {
	first := 0
	if len(f.spec.Sections) == 0 {
		first = 1
	}
	last := len(f.inputs) + 1
	span := last - first + 1
	return first + ((f.focus-first+step)%span+span)%span
}

func (f *Form) applyFocus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.body.Blur()
	switch {
	case f.focus == 0:
		return nil
	case f.focus <= len(f.inputs):
		return f.inputs[f.focus-1].Focus()
	default:
		return f.body.Focus()
	}
}

func (f *Form) resize() {
	w := f.width
	if w < 30 {
		w = 72
	}
	for i := range f.inputs {
		f.inputs[i].Width = w - 8
	}
	f.body.SetWidth(w - 6)
	f.body.SetHeight(8)
}
