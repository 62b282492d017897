// Package wizard collects a ProjectForm through a sequential prompt
// session. Each prompt blocks for input; empty answers either take the
// documented default or re-prompt. There is no way to resume an
// interrupted session.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crewforge/crewforge/internal/models"
)

type phase int

const (
	phaseIntro phase = iota
	phaseFeatures
	phaseMetrics
	phaseAgentName
	phaseAgentRole
	phaseAgentResp
	phaseTech
	phaseDone
)

// introStepCount is how many leading steps belong to the intro phase;
// the rest run in the tech phase after agent collection.
const introStepCount = 6

type Model struct {
	input textinput.Model
	steps []step
	idx   int
	phase phase

	form     *models.ProjectForm
	curAgent models.AgentDefinition
	note     string

	done    bool
	aborted bool
	width   int
}

// New builds a wizard over an initial form. A preset-prefilled form
// turns prefilled fields into defaults instead of skipping prompts.
func New(form *models.ProjectForm) *Model {
	if form == nil {
		form = &models.ProjectForm{}
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512

	m := &Model{
		input: ti,
		steps: formSteps(),
		form:  form,
		phase: phaseIntro,
	}
	m.refreshPlaceholder()
	return m
}

// Form returns the collected form; valid once Done reports true.
func (m *Model) Form() *models.ProjectForm { return m.form }

func (m *Model) Done() bool    { return m.done }
func (m *Model) Aborted() bool { return m.aborted }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit

		case "enter":
			m.submit(m.input.Value())
			m.input.SetValue("")
			m.refreshPlaceholder()
			if m.phase == phaseDone {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit advances the state machine with one answer. It is the whole
// of the wizard's logic; the bubbletea plumbing above just feeds it.
func (m *Model) submit(raw string) {
	m.note = ""
	value := strings.TrimSpace(raw)

	switch m.phase {
	case phaseIntro, phaseTech:
		m.submitField(raw)

	case phaseFeatures:
		if value == "" {
			m.phase = phaseMetrics
			return
		}
		m.form.KeyFeatures = append(m.form.KeyFeatures, value)

	case phaseMetrics:
		if value == "" {
			m.phase = phaseAgentName
			return
		}
		m.form.SuccessMetrics = append(m.form.SuccessMetrics, value)

	case phaseAgentName:
		if value == "" {
			m.phase = phaseTech
			return
		}
		m.curAgent = models.AgentDefinition{Name: value}
		m.phase = phaseAgentRole

	case phaseAgentRole:
		if value == "" {
			m.note = "Role is required"
			return
		}
		m.curAgent.Role = value
		m.phase = phaseAgentResp

	case phaseAgentResp:
		if value == "" {
			m.form.Agents = append(m.form.Agents, m.curAgent)
			m.curAgent = models.AgentDefinition{}
			m.phase = phaseAgentName
			return
		}
		m.curAgent.Responsibilities = append(m.curAgent.Responsibilities, value)
	}
}

func (m *Model) submitField(raw string) {
	s := m.effectiveStep()

	value, err := s.resolve(raw)
	if err != nil {
		m.note = err.Error()
		return
	}
	applyStep(m.form, s.key, value)

	m.idx++
	switch {
	case m.phase == phaseIntro && m.idx >= introStepCount:
		m.phase = phaseFeatures
	case m.phase == phaseTech && m.idx >= len(m.steps):
		m.finish()
	}
}

// effectiveStep folds any preset-prefilled value into the current
// step as its default.
func (m *Model) effectiveStep() step {
	s := m.steps[m.idx]
	if v := stepValue(m.form, s.key); v != "" {
		s.defaultV = v
		s.required = false
	}
	return s
}

func (m *Model) finish() {
	Finalize(m.form, time.Now())
	m.done = true
	m.phase = phaseDone
}

func (m *Model) refreshPlaceholder() {
	if m.phase == phaseIntro || m.phase == phaseTech {
		if m.idx < len(m.steps) {
			m.input.Placeholder = m.effectiveStep().defaultV
		}
		return
	}
	m.input.Placeholder = ""
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m *Model) View() string {
	if m.done {
		return ""
	}

	s := titleStyle.Render("crewforge") + "  " + dimStyle.Render("new project wizard") + "\n\n"
	s += m.sectionHeader() + "\n"
	s += m.promptText() + "\n"
	s += m.input.View() + "\n"

	if m.note != "" {
		s += noteStyle.Render(m.note) + "\n"
	}

	s += "\n" + helpStyle.Render("[enter] submit  [esc] cancel")
	return s
}

func (m *Model) sectionHeader() string {
	switch m.phase {
	case phaseIntro:
		return sectionStyle.Render("Project")
	case phaseFeatures:
		return sectionStyle.Render(fmt.Sprintf("Key features (%d so far, empty to finish)", len(m.form.KeyFeatures)))
	case phaseMetrics:
		return sectionStyle.Render(fmt.Sprintf("Success metrics (%d so far, empty to finish)", len(m.form.SuccessMetrics)))
	case phaseAgentName, phaseAgentRole, phaseAgentResp:
		return sectionStyle.Render(fmt.Sprintf("Crew agents (%d defined)", len(m.form.Agents)))
	case phaseTech:
		return sectionStyle.Render("Technical setup")
	}
	return ""
}

func (m *Model) promptText() string {
	switch m.phase {
	case phaseIntro, phaseTech:
		if m.idx >= len(m.steps) {
			return ""
		}
		s := m.effectiveStep()
		text := s.prompt
		if s.kind == stepChoice {
			text += "\n"
			for i, opt := range s.options {
				text += fmt.Sprintf("  %d. %s\n", i+1, opt)
			}
			text = strings.TrimRight(text, "\n")
		}
		if s.defaultV != "" {
			text += "  " + dimStyle.Render("(default: "+s.defaultV+")")
		}
		return text

	case phaseFeatures:
		return fmt.Sprintf("Feature %d", len(m.form.KeyFeatures)+1)

	case phaseMetrics:
		return fmt.Sprintf("Metric %d", len(m.form.SuccessMetrics)+1)

	case phaseAgentName:
		return "Agent name (empty to finish)"

	case phaseAgentRole:
		return fmt.Sprintf("Role for %s", m.curAgent.Name)

	case phaseAgentResp:
		return fmt.Sprintf("Responsibility %d for %s (empty to finish agent)", len(m.curAgent.Responsibilities)+1, m.curAgent.Name)
	}
	return ""
}
