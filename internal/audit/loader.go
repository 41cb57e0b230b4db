package audit

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/internscout/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// scrapeBudget bounds one audit scrape; browser-rendered sites are slow.
const scrapeBudget = 3 * time.Minute

type scrapeDoneMsg struct {
	records []model.RawRecord
	err     error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	siteName string
	scrapeFn func(ctx context.Context) ([]model.RawRecord, error)
	frame    int
	result   []model.RawRecord
	err      error
	done     bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doScrape(), m.tick())
}

func (m loaderModel) doScrape() tea.Cmd {
	scrapeFn := m.scrapeFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scrapeBudget)
		defer cancel()
		records, err := scrapeFn(ctx)
		return scrapeDoneMsg{records: records, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scrapeDoneMsg:
		m.result = msg.records
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Scraping %s...\n", spinner, m.siteName)
}

// RunLoader shows a spinner while scraping one site. It renders inline (no alt screen).
func RunLoader(siteName string, scrapeFn func(ctx context.Context) ([]model.RawRecord, error)) ([]model.RawRecord, error) {
	m := loaderModel{
		siteName: siteName,
		scrapeFn: scrapeFn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
