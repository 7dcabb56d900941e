package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/intelligence"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// modalState is the lifecycle of the plan input modal. Pending and settled
// only exist while the modal is open, so a loading indicator can never be
// active on a closed modal.
type modalState int

const (
	modalClosed modalState = iota
	modalOpenIdle
	modalOpenPending
	modalOpenSettled
)

func (s modalState) String() string {
	switch s {
	case modalClosed:
		return "closed"
	case modalOpenIdle:
		return "open-idle"
	case modalOpenPending:
		return "open-pending"
	case modalOpenSettled:
		return "open-settled"
	default:
		return "unknown"
	}
}

// PlanClient is the gateway surface used by the plan commands.
type PlanClient interface {
	FetchMessage(ctx context.Context) (string, error)
	Submit(ctx context.Context, req contract.PlanRequest) domain.PlanResult
}

const (
	defaultDismissDelay   = 1500 * time.Millisecond
	defaultRequestTimeout = 2 * time.Minute
	defaultStatusTimeout  = 5 * time.Second
	busyNotice            = "A plan is being generated. Wait for it to finish or press ctrl+c to cancel and quit."
)

type statusLoadedMsg struct{ text string }

// goalSubmittedMsg is sent when the goal form completes.
type goalSubmittedMsg struct{}

// planSettledMsg carries the outcome of request seq.
type planSettledMsg struct {
	seq    int
	result domain.PlanResult
}

// dismissModalMsg closes the modal after a successful request seq.
type dismissModalMsg struct{ seq int }

type planKeyMap struct {
	NewPlan key.Binding
	Close   key.Binding
	Quit    key.Binding
	Cancel  key.Binding
}

func defaultPlanKeyMap() planKeyMap {
	return planKeyMap{
		NewPlan: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new plan")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Cancel:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// planViewportKeyMap only scrolls on arrow/page keys so letter keys stay
// free for commands.
func planViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

// planModel is the bubbletea model behind `studyplan plan`. It owns one
// modal and the three-state request lifecycle inside it.
type planModel struct {
	ctx      context.Context
	client   PlanClient
	messages intelligence.Messages
	now      func() time.Time
	keys     planKeyMap

	state     modalState
	fields    *goalFields
	form      *huh.Form
	spin      spinner.Model
	vp        viewport.Model
	status    string
	result    domain.PlanResult
	hasResult bool
	notice    string

	// seq identifies the in-flight request; results for any other seq are
	// stale and dropped.
	seq    int
	cancel context.CancelFunc

	dismissDelay   time.Duration
	requestTimeout time.Duration
	statusTimeout  time.Duration
	onTransition   func(from, to modalState)

	width    int
	quitting bool
}

type planOption func(*planModel)

func withDismissDelay(d time.Duration) planOption {
	return func(m *planModel) { m.dismissDelay = d }
}

func withRequestTimeout(d time.Duration) planOption {
	return func(m *planModel) { m.requestTimeout = d }
}

func withStatusTimeout(d time.Duration) planOption {
	return func(m *planModel) { m.statusTimeout = d }
}

func withTransitionHook(fn func(from, to modalState)) planOption {
	return func(m *planModel) { m.onTransition = fn }
}

func withPlanClock(now func() time.Time) planOption {
	return func(m *planModel) { m.now = now }
}

// newPlanModel creates the model with the modal already open on a form
// prefilled from fields.
func newPlanModel(ctx context.Context, client PlanClient, msgs intelligence.Messages, fields goalFields, opts ...planOption) planModel {
	vp := viewport.New(80, 20)
	vp.KeyMap = planViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := planModel{
		ctx:            ctx,
		client:         client,
		messages:       msgs,
		now:            time.Now,
		keys:           defaultPlanKeyMap(),
		state:          modalClosed,
		fields:         &fields,
		spin:           spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		vp:             vp,
		dismissDelay:   defaultDismissDelay,
		requestTimeout: defaultRequestTimeout,
		statusTimeout:  defaultStatusTimeout,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.openModal()
	return m
}

func (m planModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), fetchStatusCmd(m.ctx, m.client, m.messages, m.statusTimeout))
}

// fetchStatusCmd loads the header status line. A gateway that never answers
// shows the transport error once timeout passes.
func fetchStatusCmd(ctx context.Context, client PlanClient, msgs intelligence.Messages, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := client.FetchMessage(ctx)
		if err != nil {
			return statusLoadedMsg{text: msgs.TransportFailed}
		}
		return statusLoadedMsg{text: text}
	}
}

func submitPlanCmd(ctx context.Context, client PlanClient, seq int, req contract.PlanRequest) tea.Cmd {
	return func() tea.Msg {
		return planSettledMsg{seq: seq, result: client.Submit(ctx, req)}
	}
}

// ── transitions ──────────────────────────────────────────────────────────────

func (m *planModel) transition(to modalState) {
	from := m.state
	m.state = to
	if m.onTransition != nil {
		m.onTransition(from, to)
	}
}

// canSubmit reports whether the submit affordance is enabled.
func (m planModel) canSubmit() bool {
	return m.state == modalOpenIdle || (m.state == modalOpenSettled && !m.result.Succeeded())
}

// openModal moves closed → open-idle with a fresh form.
func (m *planModel) openModal() tea.Cmd {
	if m.state != modalClosed {
		return nil
	}
	m.form = newGoalForm(m.fields, m.messages)
	m.notice = ""
	m.transition(modalOpenIdle)
	return m.form.Init()
}

// closeModal moves open-idle or open-settled → closed. It refuses while a
// request is pending.
func (m *planModel) closeModal() {
	switch m.state {
	case modalOpenIdle, modalOpenSettled:
		m.notice = ""
		m.transition(modalClosed)
	case modalOpenPending:
		m.notice = busyNotice
	}
}

// submit starts a request: idle (or failed) → pending. Any previous result
// is cleared.
func (m *planModel) submit() tea.Cmd {
	if !m.canSubmit() {
		return nil
	}
	m.cancelInFlight()

	m.seq++
	ctx, cancel := context.WithTimeout(m.ctx, m.requestTimeout)
	m.cancel = cancel
	m.result = domain.PlanResult{}
	m.hasResult = false
	m.notice = ""
	m.transition(modalOpenPending)

	return tea.Batch(m.spin.Tick, submitPlanCmd(ctx, m.client, m.seq, m.fields.request()))
}

// settle moves pending → settled. Results for a superseded or abandoned
// request are ignored.
func (m *planModel) settle(msg planSettledMsg) tea.Cmd {
	if msg.seq != m.seq || m.state != modalOpenPending {
		return nil
	}
	m.cancelInFlight()
	m.result = msg.result
	m.hasResult = true
	m.transition(modalOpenSettled)

	if m.result.Succeeded() {
		m.vp.SetContent(formatter.FormatPlan(m.result.Plan, m.vp.Width-2))
		m.vp.GotoTop()
		seq := m.seq
		return tea.Tick(m.dismissDelay, func(time.Time) tea.Msg { return dismissModalMsg{seq: seq} })
	}

	// A completed huh form ignores input, so failures get a fresh one bound
	// to the same values.
	m.form = newGoalForm(m.fields, m.messages)
	return m.form.Init()
}

// dismiss auto-closes the modal after a success acknowledgment.
func (m *planModel) dismiss(msg dismissModalMsg) {
	if msg.seq != m.seq || m.state != modalOpenSettled || !m.result.Succeeded() {
		return
	}
	m.transition(modalClosed)
}

// abandon cancels the in-flight request and makes its result stale.
func (m *planModel) abandon() {
	m.cancelInFlight()
	m.seq++
}

func (m *planModel) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-6, 5)
		if m.hasResult && m.result.Succeeded() {
			m.vp.SetContent(formatter.FormatPlan(m.result.Plan, m.vp.Width-2))
		}

	case statusLoadedMsg:
		m.status = msg.text
		return m, nil

	case goalSubmittedMsg:
		cmd := m.submit()
		return m, cmd

	case planSettledMsg:
		cmd := m.settle(msg)
		return m, cmd

	case dismissModalMsg:
		m.dismiss(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state != modalOpenPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateForm(msg)
}

func (m planModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.abandon()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case modalClosed:
		switch {
		case key.Matches(msg, m.keys.NewPlan):
			cmd := m.openModal()
			return m, cmd
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case modalOpenPending:
		if key.Matches(msg, m.keys.Close) {
			m.closeModal()
		}
		return m, nil

	case modalOpenSettled:
		if m.result.Succeeded() {
			if key.Matches(msg, m.keys.Close) || msg.Type == tea.KeyEnter {
				m.closeModal()
			}
			return m, nil
		}
	}

	if key.Matches(msg, m.keys.Close) {
		m.closeModal()
		return m, nil
	}
	return m.updateForm(msg)
}

// updateForm forwards msg to the form while it accepts input.
func (m planModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil || !m.canSubmit() {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, tea.Batch(cmd, func() tea.Msg { return goalSubmittedMsg{} })
	}
	return m, cmd
}

func (m planModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("STUDYPLAN"))
	if m.status != "" {
		b.WriteString("  " + formatter.Dim(m.status))
	}
	b.WriteString("\n\n")

	if m.state == modalClosed {
		b.WriteString(m.closedView())
	} else {
		b.WriteString(formatter.RenderBox("New Study Plan", m.modalBody()))
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}
	b.WriteString(m.hints())
	return b.String()
}

func (m planModel) closedView() string {
	if m.hasResult && m.result.Succeeded() {
		return m.vp.View() + "\n" + formatter.ScrollIndicator(m.vp.AtTop(), m.vp.AtBottom(), m.vp.ScrollPercent())
	}
	return formatter.Dim("No plan yet. Press n to create one.")
}

func (m planModel) modalBody() string {
	switch m.state {
	case modalOpenPending:
		return m.spin.View() + " " + formatter.Dim("Generating your study plan…") + "\n\n" +
			formatter.FormatGoalSummary(m.fields.goal(), m.now()) + "\n\n" +
			formatter.Dim("[ submit disabled ]")
	case modalOpenSettled:
		if m.result.Succeeded() {
			return formatter.Success("Study plan created.")
		}
		return formatter.FormatPlanFailure(m.result.Error) + "\n\n" + m.form.View()
	default:
		return m.form.View()
	}
}

func (m planModel) hints() string {
	var parts []string
	switch m.state {
	case modalClosed:
		parts = []string{"n: new plan", "↑/↓: scroll", "q: quit"}
	case modalOpenPending:
		parts = []string{"ctrl+c: cancel and quit"}
	case modalOpenSettled:
		if m.result.Succeeded() {
			parts = []string{"enter: view plan"}
			break
		}
		parts = []string{"enter: submit", "esc: close", "ctrl+c: quit"}
	default:
		parts = []string{"enter: submit", "esc: close", "ctrl+c: quit"}
	}
	return formatter.Dim(strings.Join(parts, "  "))
}
