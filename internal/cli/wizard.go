package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apresai/ikigen/internal/reflection"
)

// wizardModel is the Bubble Tea model for the four-step reflection.
// After the last step it shows a review page with a reflect button.
type wizardModel struct {
	steps     []reflection.Step
	answers   []string
	cursor    int // index into steps; len(steps) is the review page
	width     int
	err       error
	confirmed bool
	cancelled bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	questionStyle = lipgloss.NewStyle().
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#555555")).
				Italic(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	stepLabelStyle = lipgloss.NewStyle().
			Width(26).
			Align(lipgloss.Right).
			MarginRight(2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 3)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	headerBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)
)

func newWizardModel(initial reflection.Data) wizardModel {
	m := wizardModel{
		steps:   reflection.Steps,
		answers: make([]string, len(reflection.Steps)),
		width:   80,
	}
	for i, s := range m.steps {
		m.answers[i], _ = initial.Get(s.ID)
	}
	return m
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) reviewing() bool {
	return m.cursor >= len(m.steps)
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.reviewing() {
			return m.updateReview(msg)
		}
		return m.updateStep(msg)
	}
	return m, nil
}

func (m wizardModel) updateStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.answers[m.cursor]) == "" {
			m.err = fmt.Errorf("%s needs an answer", m.steps[m.cursor].Title)
			return m, nil
		}
		m.err = nil
		m.cursor++
	case "esc":
		m.err = nil
		if m.cursor > 0 {
			m.cursor--
		}
	case "backspace":
		if r := []rune(m.answers[m.cursor]); len(r) > 0 {
			m.answers[m.cursor] = string(r[:len(r)-1])
		}
	case "ctrl+u":
		m.answers[m.cursor] = ""
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.answers[m.cursor] += string(msg.Runes)
		}
	}
	return m, nil
}

func (m wizardModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "esc":
		m.cursor = len(m.steps) - 1
	case "q":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m wizardModel) View() string {
	var b strings.Builder
	b.WriteString(headerBorder.Render(titleStyle.Render("ikigen - find your Ikigai")))
	b.WriteString("\n")

	if m.reviewing() {
		for i, s := range m.steps {
			b.WriteString(stepLabelStyle.Render(s.Title))
			b.WriteString(answerStyle.Render(truncate(m.answers[i], m.width-30)))
			b.WriteString("\n")
		}
		b.WriteString("\n  ")
		b.WriteString(buttonStyle.Render("Reflect"))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter reflect · esc back · q quit"))
		return b.String()
	}

	s := m.steps[m.cursor]
	fmt.Fprintf(&b, "Step %d of %d · %s\n\n", m.cursor+1, len(m.steps), s.Title)
	b.WriteString(questionStyle.Render(s.Question))
	b.WriteString("\n")
	if m.answers[m.cursor] == "" {
		b.WriteString(placeholderStyle.Width(m.width - 2).Render(s.Placeholder))
	} else {
		b.WriteString(answerStyle.Width(m.width - 2).Render(m.answers[m.cursor]))
	}
	b.WriteString(cursorStyle.Render("█"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter next · esc back · ctrl+u clear · ctrl+c quit"))
	return b.String()
}

// data returns the collected answers.
func (m wizardModel) data() reflection.Data {
	var d reflection.Data
	for i, s := range m.steps {
		_ = d.Set(s.ID, strings.TrimSpace(m.answers[i]))
	}
	return d
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// runWizard walks the user through the four questions.
func runWizard(initial reflection.Data) (reflection.Data, error) {
	p := tea.NewProgram(newWizardModel(initial), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return reflection.Data{}, fmt.Errorf("run wizard: %w", err)
	}
	final := result.(wizardModel)
	if final.cancelled || !final.confirmed {
		return reflection.Data{}, fmt.Errorf("reflection cancelled")
	}
	return final.data(), nil
}
