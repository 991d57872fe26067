package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pni/internal/runner"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	findingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	fileCount  int
	findings   int
	lastUpdate time.Time
}

type updateMsg struct {
	result *runner.Result
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.fileCount = msg.result.FilesScanned
		m.findings = msg.result.TotalDiagnostics()
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, file := range msg.result.Files {
			for _, d := range file.Diagnostics {
				items = append(items, item{
					title: fmt.Sprintf("%s %s", d.Code, d.Message),
					desc:  fmt.Sprintf("%s:%d:%d", file.Path, d.Line, d.Column),
				})
			}
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files",
		m.lastUpdate.Format("15:04:05"), m.fileCount))

	var summary string
	if m.findings == 0 {
		summary = successStyle.Render("✅ No private imports")
	} else {
		summary = findingStyle.Render(fmt.Sprintf("⚠️  %d findings", m.findings))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Private Import Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Private Imports"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// runUI starts the watcher and drives the TUI until the user quits.
func runUI(ctx context.Context, app *App, initial *runner.Result) error {
	program := tea.NewProgram(initialModel(), tea.WithAltScreen())

	err := app.StartWatch(ctx, func(r *runner.Result) {
		program.Send(updateMsg{result: r})
	})
	if err != nil {
		return err
	}

	go program.Send(updateMsg{result: initial})

	_, err = program.Run()
	return err
}
