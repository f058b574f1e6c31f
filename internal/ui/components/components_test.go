package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMatchHints(t *testing.T) {
	t.Parallel()
	got := matchHints("resource:", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 resource hints, got %v", got)
	}
	if len(matchHints("", 4)) != 4 {
		t.Fatalf("limit not applied")
	}
	if len(matchHints("nope", 4)) != 0 {
		t.Fatalf("unexpected matches for unknown prefix")
	}
}

func TestFormCyclesSectionAndSubmits(t *testing.T) {
	t.Parallel()
	f := NewForm()
	f.Open(FormSpec{
		Purpose:  "note:add",
		Title:    "Add note",
		Sections: []string{"A", "B", "C"},
		Inputs:   []FormInput{{Label: "Date", Value: "2024-01-02"}},
		Body:     "hello",
	})
	if !f.Visible() {
		t.Fatalf("form should be visible after Open")
	}
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if f.Visible() {
		t.Fatalf("form should close on submit")
	}
	msg, ok := cmd().(FormSubmitMsg)
	if !ok {
		t.Fatalf("expected FormSubmitMsg")
	}
	if msg.Section != "C" || msg.Fields["Date"] != "2024-01-02" || msg.Body != "hello" || msg.Purpose != "note:add" {
		t.Fatalf("unexpected submission: %+v", msg)
	}
}

func TestFormFocusSkipsMissingPicker(t *testing.T) {
	t.Parallel()
	f := NewForm()
	f.Open(FormSpec{Purpose: "note:edit", Body: "x"})
	if f.focus != 1 {
		t.Fatalf("expected body focus without picker or inputs, got %d", f.focus)
	}
	if next := f.next(1); next != 1 {
		t.Fatalf("single field form should keep focus, got %d", next)
	}

	f.Open(FormSpec{Purpose: "resource:add", Sections: []string{"A"}, Inputs: []FormInput{{Label: "URL"}}})
	order := []int{f.focus}
	for range 3 {
		f.focus = f.next(1)
		order = append(order, f.focus)
	}
	want := []int{0, 1, 2, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("focus order = %v, want %v", order, want)
		}
	}
}

func TestFormEscCancels(t *testing.T) {
	t.Parallel()
	f := NewForm()
	f.Open(FormSpec{Purpose: "note:edit"})
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if f.Visible() {
		t.Fatalf("form should close on esc")
	}
	if msg, ok := cmd().(FormCancelMsg); !ok || msg.Purpose != "note:edit" {
		t.Fatalf("expected cancel for note:edit, got %#v", msg)
	}
}

func TestPaletteTabCompletesCommand(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	for _, r := range "fil" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.input.Value(); got != "filter " {
		t.Fatalf("expected completion to %q, got %q", "filter ", got)
	}
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(PaletteSubmitMsg); !ok || msg.Input != "filter" {
		t.Fatalf("unexpected submit: %#v", cmd())
	}
}
