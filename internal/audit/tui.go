package audit

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/internscout/internal/filter"
	"github.com/amishk599/internscout/internal/model"
)

// Lines per record in the list view (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// item is one raw record as shown in the lists.
type item struct {
	rec      model.RawRecord
	title    string
	subtitle string
	keyword  string // matched preference keyword, empty if none
	matched  bool
}

func buildItems(records []model.RawRecord, matcher *filter.KeywordMatcher) (all, matched []item) {
	all = make([]item, 0, len(records))
	for _, r := range records {
		it := item{rec: r}
		it.title, it.subtitle = filter.HeadLines(r.RawText)
		if it.title == "" {
			it.title = r.URL
		}
		it.keyword, it.matched = matcher.Match(r.RawText)
		all = append(all, it)
		if it.matched {
			matched = append(matched, it)
		}
	}
	return all, matched
}

// extractedMsg is sent when an on-demand extraction of one record completes.
type extractedMsg struct {
	url  string
	opps []model.Opportunity
}

type auditModel struct {
	allItems      []item
	matchedItems  []item
	prefs         model.PreferenceSpec
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int // 0=left, 1=right
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	// Detail view state
	view           viewState
	detail         item
	detailViewport viewport.Model
	showRaw        bool

	// On-demand extraction state
	extractor      model.Extractor
	extractLoading bool
	extracted      map[string][]model.Opportunity // by record URL

	wantQuit bool
}

func (m auditModel) Init() tea.Cmd {
	return nil
}

func (m auditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case extractedMsg:
		m.extractLoading = false
		m.extracted[msg.url] = msg.opps
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m auditModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m auditModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.detail.rec.URL)
		return m, nil
	case "r":
		m.showRaw = !m.showRaw
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	case "s":
		if _, done := m.extracted[m.detail.rec.URL]; m.extractor != nil && !m.extractLoading && !done {
			m.extractLoading = true
			m.detailViewport.SetContent(m.renderDetail())
			return m, m.extractCmd(m.detail.rec)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m auditModel) extractCmd(rec model.RawRecord) tea.Cmd {
	extractor := m.extractor
	prefs := m.prefs
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scrapeBudget)
		defer cancel()
		opps := extractor.ExtractAndFilter(ctx, []model.RawRecord{rec}, prefs)
		return extractedMsg{url: rec.URL, opps: opps}
	}
}

func (m *auditModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.allItems)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.matchedItems)-1, 0))
	}
}

func (m *auditModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * itemHeight
	cursorBottom := cursorTop + itemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m auditModel) openDetailView() (tea.Model, tea.Cmd) {
	items := m.activeItems()
	if len(items) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = items[m.activeCursor()]
	m.showRaw = true
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *auditModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *auditModel) recalcContent() {
	m.leftViewport.SetContent(renderItems(m.allItems, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderItems(m.matchedItems, m.rightCursor, m.activePane == 1))
}

func (m auditModel) activeItems() []item {
	if m.activePane == 0 {
		return m.allItems
	}
	return m.matchedItems
}

func (m auditModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m auditModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m auditModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" Raw Records (%d)", len(m.allItems))
	rightHeader := fmt.Sprintf(" Keyword Matches (%d)", len(m.matchedItems))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	unmatched := len(m.allItems) - len(m.matchedItems)
	statusText := fmt.Sprintf(" %d records | %d keyword matches | %d unmatched    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		len(m.allItems), len(m.matchedItems), unmatched)
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m auditModel) viewDetail() string {
	title := detailTitleStyle.Render("Record Details")
	if m.extractLoading {
		title += "  (extracting...)"
	}

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  r raw text  esc/backspace back  ↑/↓ scroll  q quit"
	if _, done := m.extracted[m.detail.rec.URL]; m.extractor != nil && !done && !m.extractLoading {
		statusText = " o open URL  r raw text  s extract  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m auditModel) renderDetail() string {
	it := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Headline", it.title)
	addField("Second line", it.subtitle)
	addField("URL", it.rec.URL)
	if it.matched && it.keyword != "" {
		addField("Keyword", it.keyword)
	} else if !it.matched {
		addField("Keyword", "none")
	}

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if opps, done := m.extracted[it.rec.URL]; done {
		b.WriteByte('\n')
		b.WriteString(divider("── Extraction ") + "\n\n")
		if len(opps) == 0 {
			b.WriteString(hintStyle.Render("  not matched by the extraction service") + "\n")
		}
		for _, o := range opps {
			addField("Title", o.Title)
			addField("Company", o.Company)
			addField("Reason", o.ReasonForMatch)
		}
	} else if m.extractLoading {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  running extraction...") + "\n")
	} else if m.extractor != nil {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  press s to run extraction on this record") + "\n")
	}

	b.WriteByte('\n')
	if m.showRaw {
		b.WriteString(divider("── Raw Text ") + "\n\n")
		b.WriteString(bodyStyle.Render(it.rec.RawText) + "\n")
	} else {
		b.WriteString(hintStyle.Render("  press r to show raw text") + "\n")
	}

	return b.String()
}

func renderItems(items []item, cursor int, isActive bool) string {
	if len(items) == 0 {
		return "  (no records)"
	}

	var b strings.Builder
	for i, it := range items {
		isSelected := isActive && i == cursor

		titleSt := itemTitleStyle
		subtitleSt := itemSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(it.title))
		b.WriteByte('\n')

		sub := it.subtitle
		if it.matched && it.keyword != "" {
			sub = fmt.Sprintf("%s · %s", sub, it.keyword)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(sub))
		b.WriteByte('\n')

		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunAuditTUI launches the interactive split-pane audit TUI over raw records.
// extractor may be nil; when non-nil the 's' key runs it on the open record.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc to return to the picker.
func RunAuditTUI(records []model.RawRecord, prefs model.PreferenceSpec, extractor model.Extractor) (bool, error) {
	all, matched := buildItems(records, filter.NewKeywordMatcher(prefs.Keywords))

	m := auditModel{
		allItems:     all,
		matchedItems: matched,
		prefs:        prefs,
		extractor:    extractor,
		extracted:    map[string][]model.Opportunity{},
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(auditModel)
	return final.wantQuit, nil
}
