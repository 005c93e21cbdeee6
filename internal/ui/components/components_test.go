package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var adjusted []int
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "amount", Value: func() string { return "10" }, Adjust: func(s int) tea.Cmd {
			adjusted = append(adjusted, s)
			return nil
		}},
		{Label: "gap", Disabled: true},
		{Label: "start", Action: func() tea.Cmd { return tea.Quit }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial cursor = %d, want 1", m.Selected)
	}

	m, _ = m.Update(press("left"))
	m, _ = m.Update(press("right"))
	m, _ = m.Update(press("enter"))
	if len(adjusted) != 3 || adjusted[0] != -1 || adjusted[1] != 1 || adjusted[2] != 1 {
		t.Errorf("adjust calls = %v", adjusted)
	}

	m, _ = m.Update(press("down"))
	if m.Selected != 3 {
		t.Fatalf("cursor = %d, want 3", m.Selected)
	}
	m, _ = m.Update(press("down"))
	if m.Selected != 3 {
		t.Errorf("cursor moved past end: %d", m.Selected)
	}
	_, cmd := m.Update(press("enter"))
	if cmd == nil {
		t.Error("action not run")
	}
	m, _ = m.Update(press("up"))
	if m.Selected != 1 {
		t.Errorf("cursor = %d, want 1", m.Selected)
	}

	if v := m.View(8); !strings.Contains(v, "‹ 10 ›") {
		t.Errorf("value missing from view:\n%s", v)
	}
}

func TestChoices(t *testing.T) {
	c := NewChoices([]string{"Mars", "Venus", "Earth"})

	c, _ = c.Update(press("down"))
	_, cmd := c.Update(press("enter"))
	if msg, ok := cmd().(ChoiceMsg); !ok || msg.Option != "Venus" {
		t.Fatalf("enter chose %#v", cmd())
	}

	_, cmd = c.Update(press("3"))
	if msg := cmd().(ChoiceMsg); msg.Option != "Earth" {
		t.Errorf("digit chose %q", msg.Option)
	}
	if _, cmd = c.Update(press("9")); cmd != nil {
		t.Error("out of range digit chose something")
	}

	c.Reveal("Earth", "Venus")
	if _, cmd = c.Update(press("enter")); cmd != nil {
		t.Error("revealed list accepted input")
	}
	v := c.View(40)
	if !strings.Contains(v, "Earth ✓") || !strings.Contains(v, "Venus ✗") {
		t.Errorf("reveal marks missing:\n%s", v)
	}
}

func TestBar(t *testing.T) {
	if v := Bar(0.75, 26); !strings.Contains(v, " 75%") || strings.Count(v, "█") != 15 {
		t.Errorf("Bar(0.75) = %q", v)
	}
	if v := Bar(2, 26); !strings.Contains(v, "100%") {
		t.Errorf("Bar clamps high: %q", v)
	}
}
