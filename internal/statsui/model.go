// Package statsui provides the Bubble Tea dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/view"
)

const (
	plotHeight   = 10
	sidebarPad   = 4
	minMainWidth = 20
)

const (
	fieldEntity = iota
	fieldMetric
	fieldSeason
	fieldPhase
	fieldTop
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Options configures the dashboard.
type Options struct {
	Deps view.Deps
	// Start selects the first mode; its Phase and TopN seed every mode that uses them.
	Start view.Params
	// Reload drops cached datasets before the next load.
	Reload          func()
	Recommendations bool
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	deps   view.Deps
	reload func()

	modes  []view.Mode
	active int
	params map[view.Mode]view.Params

	result   view.Result
	choices  view.Choices
	content  string
	errMsg   string
	loading  bool
	seq      int
	showRecs bool

	body     viewport.Model
	table    table.Model
	hasTable bool

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

type loadedMsg struct {
	seq     int
	result  view.Result
	choices view.Choices
	err     error
}

// NewModel constructs a dashboard model.
func NewModel(opts Options) *Model {
	m := &Model{
		deps:     opts.Deps,
		reload:   opts.Reload,
		modes:    view.Modes(),
		params:   map[view.Mode]view.Params{},
		showRecs: opts.Recommendations,
		body:     viewport.New(0, 0),
		table:    table.New(table.WithStyles(resultTableStyles())),
	}
	for i, mode := range m.modes {
		p := view.Params{Mode: mode, Phase: opts.Start.Phase, TopN: opts.Start.TopN}
		if mode == opts.Start.Mode {
			m.active = i
			p = opts.Start
		}
		m.params[mode] = p.Normalize()
	}
	m.initInputs()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderContent()
		return m, nil
	case loadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	changed := false
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.moveMode(1)
		return m, tea.Batch(tea.ClearScreen, m.load())
	case "shift+tab":
		m.moveMode(-1)
		return m, tea.Batch(tea.ClearScreen, m.load())
	case "m":
		changed = m.cycleMetric(1)
	case "M":
		changed = m.cycleMetric(-1)
	case "e":
		changed = m.cycleEntity(1)
	case "E":
		changed = m.cycleEntity(-1)
	case "s":
		changed = m.cycleSeason(1)
	case "S":
		changed = m.cycleSeason(-1)
	case "p":
		changed = m.cyclePhase(1)
	case "P":
		changed = m.cyclePhase(-1)
	case "+", "=":
		changed = m.adjustTop(1)
	case "-":
		changed = m.adjustTop(-1)
	case "a":
		m.showRecs = !m.showRecs
		m.renderContent()
		return m, nil
	case "r":
		if m.reload != nil {
			m.reload()
		}
		return m, m.load()
	case "/":
		return m.startForm()
	case "home":
		m.body.GotoTop()
		m.table.GotoTop()
		return m, nil
	case "end":
		m.body.GotoBottom()
		m.table.GotoBottom()
		return m, nil
	default:
		var cmd tea.Cmd
		if m.hasTable {
			m.table, cmd = m.table.Update(msg)
		} else {
			m.body, cmd = m.body.Update(msg)
		}
		return m, cmd
	}
	if changed {
		return m, m.load()
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.formMode {
		return fitLines(m.renderFormModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	mainWidth := m.mainWidth()
	sidebar := fitLines(m.renderSidebar(), m.sidebarWidth(), headerHeight+bodyHeight)
	header := fitLines(m.renderHeader(mainWidth), mainWidth, headerHeight)
	body := m.renderBody(mainWidth, bodyHeight)
	main := header + "\n" + body
	top := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return top + "\n" + footer
}

func (m *Model) mode() view.Mode {
	return m.modes[m.active]
}

func (m *Model) current() view.Params {
	return m.params[m.mode()]
}

func (m *Model) setCurrent(p view.Params) {
	m.params[m.mode()] = p
}

// load builds the current view off the update loop. Results from superseded
// loads are dropped by sequence number.
func (m *Model) load() tea.Cmd {
	m.seq++
	m.loading = true
	seq, deps, p := m.seq, m.deps, m.current()
	return func() tea.Msg {
		ctx := context.Background()
		res, err := view.Dispatch(ctx, deps, p)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		choices, err := view.Options(ctx, deps, p.Mode)
		return loadedMsg{seq: seq, result: res, choices: choices, err: err}
	}
}

func (m *Model) applyLoaded(msg loadedMsg) {
	if msg.seq != m.seq {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		m.result = view.Result{Mode: m.mode(), Title: m.mode().Label()}
		m.choices = view.Choices{}
		m.deps.Logger.Error("view failed", "mode", m.mode(), "err", msg.err)
		m.renderContent()
		return
	}
	m.errMsg = ""
	m.result = msg.result
	m.choices = msg.choices
	if msg.result.Params.Mode == m.mode() {
		m.setCurrent(msg.result.Params)
	}
	m.renderContent()
}

func (m *Model) moveMode(delta int) {
	m.active = cycleIndex(len(m.modes), m.active, delta)
	m.result = view.Result{Mode: m.mode(), Title: m.mode().Label()}
	m.choices = view.Choices{}
	m.errMsg = ""
	m.renderContent()
}

func (m *Model) cycleMetric(delta int) bool {
	p := m.current()
	metrics := p.Mode.Metrics()
	if len(metrics) < 2 {
		return false
	}
	p.Metric = metrics[cycleIndex(len(metrics), indexOf(metrics, p.Metric), delta)]
	m.setCurrent(p)
	return true
}

func (m *Model) cycleEntity(delta int) bool {
	p := m.current()
	if !p.Mode.HasEntity() || len(m.choices.Entities) == 0 {
		return false
	}
	p.Entity = m.choices.Entities[cycleIndex(len(m.choices.Entities), indexOf(m.choices.Entities, p.Entity), delta)]
	m.setCurrent(p)
	return true
}

// cycleSeason steps through the season choices. Top views also offer 0,
// meaning every season since the recent cutoff.
func (m *Model) cycleSeason(delta int) bool {
	p := m.current()
	if !p.Mode.HasSeason() || len(m.choices.Seasons) == 0 {
		return false
	}
	seasons := m.choices.Seasons
	if p.Mode.HasPhase() {
		seasons = append([]int{0}, seasons...)
	}
	idx := len(seasons) - 1
	for i, season := range seasons {
		if season == p.Season {
			idx = i
		}
	}
	p.Season = seasons[cycleIndex(len(seasons), idx, delta)]
	m.setCurrent(p)
	return true
}

func (m *Model) cyclePhase(delta int) bool {
	p := m.current()
	if !p.Mode.HasPhase() {
		return false
	}
	idx := 0
	for i, phase := range model.Phases {
		if phase == p.Phase {
			idx = i
		}
	}
	p.Phase = model.Phases[cycleIndex(len(model.Phases), idx, delta)]
	m.setCurrent(p)
	return true
}

func (m *Model) adjustTop(delta int) bool {
	p := m.current()
	if !p.Mode.HasTop() {
		return false
	}
	next := maxInt(1, p.TopN+delta)
	if next == p.TopN {
		return false
	}
	p.TopN = next
	m.setCurrent(p)
	return true
}

func cycleIndex(n, idx, delta int) int {
	if n == 0 {
		return 0
	}
	idx = (idx + delta) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return 0
}

func (m *Model) sidebarWidth() int {
	w := len("crease")
	for _, mode := range m.modes {
		w = maxInt(w, runewidth.StringWidth(mode.Label()))
	}
	return w + sidebarPad
}

func (m *Model) mainWidth() int {
	return maxInt(minMainWidth, m.width-m.sidebarWidth()-1)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	width := m.mainWidth()
	m.body.Width = width
	if !m.hasTable {
		m.body.Height = bodyHeight
	} else {
		info := minInt(lipgloss.Height(m.content), maxInt(1, bodyHeight/2))
		m.body.Height = info
		m.table.SetWidth(width)
		m.fitTableHeight(maxInt(1, bodyHeight-info))
	}
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
	}
}

// fitTableHeight sizes the table so its rendered view, header included, is target lines.
func (m *Model) fitTableHeight(target int) {
	m.table.SetHeight(target)
	viewHeight := lipgloss.Height(m.table.View())
	if viewHeight == target {
		return
	}
	height := maxInt(1, m.table.Height()+target-viewHeight)
	m.table.SetHeight(height)
}

func (m *Model) renderSidebar() string {
	lines := []string{titleStyle.Render("crease"), ""}
	for i, mode := range m.modes {
		if i == m.active {
			lines = append(lines, activeNavStyle.Render("> "+mode.Label()))
		} else {
			lines = append(lines, inactiveNavStyle.Render("  "+mode.Label()))
		}
	}
	if b := m.result.Badge; b != nil {
		lines = append(lines, "")
		if b.Missing() {
			lines = append(lines, wrapText(view.BadgePlaceholder, m.sidebarWidth(), headerStyle))
		} else {
			lines = append(lines, view.BadgeLine(view.Badge{Code: b.Code, Foreground: b.Foreground, Background: b.Background}))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader(width int) string {
	p := m.current()
	parts := []string{m.mode().Label()}
	if p.Metric != "" {
		parts = append(parts, "metric="+p.Metric)
	}
	if p.Mode.HasEntity() {
		parts = append(parts, "entity="+orDefault(p.Entity, "first"))
	}
	if p.Mode.HasSeason() {
		season := "latest"
		if p.Mode.HasPhase() {
			season = "recent"
		}
		if p.Season != 0 {
			season = strconv.Itoa(p.Season)
		}
		parts = append(parts, "season="+season)
	}
	if p.Mode.HasPhase() {
		parts = append(parts, "phase="+string(p.Phase))
	}
	if p.Mode.HasTop() {
		parts = append(parts, "top="+strconv.Itoa(p.TopN))
	}
	if m.loading {
		parts = append(parts, "loading...")
	}
	return headerStyle.Render(truncateLine(strings.Join(parts, "  "), width))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (m *Model) renderHelp() string {
	p := m.current()
	parts := []string{"Mode: tab/shift+tab"}
	if len(p.Mode.Metrics()) > 1 {
		parts = append(parts, "Metric: m/M")
	}
	if p.Mode.HasEntity() {
		parts = append(parts, "Entity: e/E")
	}
	if p.Mode.HasSeason() {
		parts = append(parts, "Season: s/S")
	}
	if p.Mode.HasPhase() {
		parts = append(parts, "Phase: p/P")
	}
	if p.Mode.HasTop() {
		parts = append(parts, "Top: -/+")
	}
	if len(m.result.Recommendations) > 0 {
		parts = append(parts, "Advice: a")
	}
	parts = append(parts, "Edit: /", "Reload: r", "Quit: q")
	return headerStyle.Render(truncateLine(strings.Join(parts, "  "), m.width))
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody(width, height int) string {
	if !m.hasTable {
		return fitLines(m.body.View(), width, height)
	}
	info := fitLines(m.body.View(), width, m.body.Height)
	rest := maxInt(1, height-m.body.Height)
	return info + "\n" + fitLines(tableMutedStyle.Render(m.table.View()), width, rest)
}

// renderContent redraws the result into the viewport and table.
func (m *Model) renderContent() {
	width := m.mainWidth()
	if m.width <= 0 {
		width = 80
	}
	r := m.result
	var sections []string

	head := []string{titleStyle.Render(r.Title)}
	if r.Subtitle != "" {
		head = append(head, headerStyle.Render(r.Subtitle))
	}
	for _, w := range r.Warnings {
		head = append(head, wrapText("! "+w, width, warnStyle))
	}
	if r.Empty {
		head = append(head, noteStyle.Render("No data available."))
	}
	if m.errMsg != "" {
		head = append(head, errorStyle.Render("Failed to load view."))
	}
	sections = append(sections, strings.Join(head, "\n"))

	if r.Chart != nil && !r.Empty {
		if r.Chart.Best != nil {
			sections = append(sections, renderBestCards(*r.Chart, width))
		}
		sections = append(sections, renderChart(*r.Chart, width))
	}
	if len(r.Highlights) > 0 {
		cards := make([]string, 0, len(r.Highlights))
		for _, h := range r.Highlights {
			cards = append(cards, cardStyle.Render(cardValueStyle.Render(h)))
		}
		sections = append(sections, joinCards(cards, width))
	}
	for _, g := range r.Scouting {
		sections = append(sections, cardTitleStyle.Render(g.Role)+"\n"+
			wrapText("• "+strings.Join(g.Players, " • "), width, noteStyle))
	}
	for _, note := range r.Notes {
		sections = append(sections, wrapText(note, width, noteStyle))
	}
	if m.showRecs && len(r.Recommendations) > 0 {
		lines := []string{cardTitleStyle.Render("Recommendations")}
		for _, rec := range r.Recommendations {
			lines = append(lines, wrapText("- "+rec, width, noteStyle))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	m.content = strings.Join(sections, "\n\n")
	m.body.SetContent(m.content)
	m.hasTable = r.Table != nil && !r.Empty
	if m.hasTable {
		cols, rows := buildTableData(*r.Table)
		m.table.SetRows(nil)
		m.table.SetColumns(cols)
		m.table.SetRows(rows)
		m.table.GotoTop()
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	m.updateLayout()
}

func renderChart(chart stats.Chart, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderChart(&buf, chart, width, plotHeight); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderBestCards(chart stats.Chart, width int) string {
	best := *chart.Best
	cards := []string{
		metricCard("Best "+stats.MetricLabel(chart.Metric), stats.FormatMetric(chart.Metric, best.Value)),
		metricCard("Season", strconv.Itoa(best.Season)),
		metricCard("Phase", string(best.Phase)),
	}
	return joinCards(cards, width)
}

func joinCards(cards []string, width int) string {
	total := 0
	for _, c := range cards {
		total += lipgloss.Width(c)
	}
	if total > width {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildTableData(t stats.Table) ([]table.Column, []table.Row) {
	columns := make([]table.Column, len(t.Headers))
	for i, h := range t.Headers {
		w := runewidth.StringWidth(h)
		for _, row := range t.Rows {
			if i < len(row) {
				w = maxInt(w, runewidth.StringWidth(row[i]))
			}
		}
		columns[i] = table.Column{Title: h, Width: w}
	}
	rows := make([]table.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, table.Row(row))
	}
	return columns, rows
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) initInputs() {
	m.formInputs = []textinput.Model{
		fieldEntity: newFormInput("Entity: "),
		fieldMetric: newFormInput("Metric: "),
		fieldSeason: newFormInput("Season: "),
		fieldPhase:  newFormInput("Phase: "),
		fieldTop:    newFormInput("Top: "),
	}
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromParams() {
	p := m.current()
	m.formInputs[fieldEntity].SetValue(p.Entity)
	m.formInputs[fieldMetric].SetValue(p.Metric)
	m.formInputs[fieldSeason].SetValue("")
	if p.Season != 0 {
		m.formInputs[fieldSeason].SetValue(strconv.Itoa(p.Season))
	}
	m.formInputs[fieldPhase].SetValue(string(p.Phase))
	m.formInputs[fieldTop].SetValue("")
	if p.TopN != 0 {
		m.formInputs[fieldTop].SetValue(strconv.Itoa(p.TopN))
	}
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setInputsFromParams()
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		p, err := m.applyForm()
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.setCurrent(p)
		m.formMode = false
		m.formError = ""
		return m, m.load()
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	m.formIndex = cycleIndex(len(m.formInputs), idx, 0)
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() (view.Params, error) {
	p := view.Params{
		Mode:   m.mode(),
		Entity: strings.TrimSpace(m.formInputs[fieldEntity].Value()),
		Metric: strings.TrimSpace(m.formInputs[fieldMetric].Value()),
	}
	if raw := strings.TrimSpace(m.formInputs[fieldSeason].Value()); raw != "" {
		season, err := model.ParseSeason(raw)
		if err != nil {
			return view.Params{}, fmt.Errorf("invalid season (use a year such as 2024)")
		}
		p.Season = season
	}
	if raw := strings.TrimSpace(m.formInputs[fieldPhase].Value()); raw != "" {
		phase, err := model.ParsePhase(raw)
		if err != nil {
			return view.Params{}, fmt.Errorf("invalid phase (use Powerplay, Middle or Death)")
		}
		p.Phase = phase
	}
	if raw := strings.TrimSpace(m.formInputs[fieldTop].Value()); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 {
			return view.Params{}, fmt.Errorf("invalid top value (use integer >= 1)")
		}
		p.TopN = top
	}
	p = p.Normalize()
	if err := view.Validate(context.Background(), p); err != nil {
		return view.Params{}, err
	}
	return p, nil
}

func (m *Model) renderFormModal() string {
	body := []string{cardValueStyle.Render(m.mode().Label())}
	for _, input := range m.formInputs {
		body = append(body, input.View())
	}
	if metrics := m.mode().Metrics(); len(metrics) > 0 {
		body = append(body, wrapText("Metrics: "+strings.Join(metrics, ", "), modalInnerWidth(m.width), headerStyle))
	}
	body = append(body, headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel"))
	if m.formError != "" {
		body = append(body, wrapText(m.formError, modalInnerWidth(m.width), errorStyle))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
