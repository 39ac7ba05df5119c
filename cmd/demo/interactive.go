package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/loom/sched"
	"github.com/wippyai/loom/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type demoModel struct {
	reg     *sched.Registry
	stage   *Stage
	spin    spinner.Model
	tickErr error
	frame   time.Duration
	ticks   int
}

// frameMsg carries the wall-clock time of one scheduler tick.
type frameMsg time.Time

func newDemoModel(reg *sched.Registry, fps int) *demoModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle
	return &demoModel{
		reg:   reg,
		stage: &Stage{Status: "idle"},
		spin:  sp,
		frame: time.Second / time.Duration(fps),
	}
}

func (m *demoModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.nextFrame())
}

func (m *demoModel) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// provide hands every task the same stage. Contexts are rebuilt each tick so
// resumed procedures never hold a stale view.
func (m *demoModel) provide(string) task.Context {
	return task.ContextFunc(func(name string) any {
		if name == "stage" {
			return m.stage
		}
		return nil
	})
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "1":
			if err := m.reg.Trigger(revealID); err != nil {
				m.tickErr = err
			}

		case "2":
			if err := m.reg.Trigger(fetchID); err != nil {
				m.tickErr = err
			}
		}

	case frameMsg:
		m.ticks++
		if err := m.reg.Tick(m.provide, time.Time(msg)); err != nil {
			m.tickErr = err
		}
		return m, m.nextFrame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *demoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Loom Demo"))
	b.WriteString(fmt.Sprintf("  tick %d\n\n", m.ticks))

	banner := m.stage.Banner
	if banner == "" {
		banner = "-"
	}
	b.WriteString("  banner  ")
	b.WriteString(bannerStyle.Render(banner))
	b.WriteString("\n")

	b.WriteString("  fetch   ")
	if m.reg.IsActive(fetchID) {
		b.WriteString(m.spin.View())
		b.WriteString(" ")
	}
	b.WriteString(statusStyle.Render(m.stage.Status))
	b.WriteString("\n\n")

	if active := m.reg.Active(); len(active) > 0 {
		b.WriteString("  running: " + strings.Join(active, ", ") + "\n\n")
	}

	for _, ev := range m.stage.Events {
		b.WriteString("  " + eventStyle.Render(ev) + "\n")
	}
	if len(m.stage.Events) > 0 {
		b.WriteString("\n")
	}

	if m.tickErr != nil {
		b.WriteString("  " + errorStyle.Render("error: "+m.tickErr.Error()) + "\n\n")
	}

	b.WriteString(helpStyle.Render("  1 reveal • 2 fetch • q quit"))
	b.WriteString("\n")

	return b.String()
}

func runDemo(fps int) error {
	reg := sched.NewRegistry(sched.Config{})
	registerReveal(reg)
	registerFetch(reg)

	p := tea.NewProgram(newDemoModel(reg, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
