package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/input"
	"github.com/glabrego/reelfeed-cli/internal/layout"
	"github.com/glabrego/reelfeed-cli/internal/media"
	"github.com/glabrego/reelfeed-cli/internal/playback"
	"github.com/glabrego/reelfeed-cli/internal/storage"
	"github.com/glabrego/reelfeed-cli/internal/tui/actions"
	tuiplatform "github.com/glabrego/reelfeed-cli/internal/tui/platform"
	tuistate "github.com/glabrego/reelfeed-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reelfeed-cli/internal/tui/theme"
	tuiview "github.com/glabrego/reelfeed-cli/internal/tui/view"
)

const (
	statusTTL      = 3 * time.Second
	playbackTick   = 250 * time.Millisecond
	chromeRows     = 2
	bottomRows     = 3
	reelDotsRow    = chromeRows
	filterNewItems = "new"
)

type Service interface {
	Grid() *feed.Controller
	Reels() *feed.Controller
	SavePreferences(ctx context.Context, prefs storage.Preferences) error
	RecordView(ctx context.Context, item feed.Item, key feed.QueryKey) error
}

// BreakerReporter is implemented by data sources that guard the API with a
// circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

type Options struct {
	Categories []string
	// Columns maps a terminal width to a grid column count.
	Columns      func(width int) int
	Input        input.Options
	Playback     playback.Options
	FetchTimeout time.Duration
	Preferences  storage.Preferences
	Breaker      BreakerReporter
	Logger       zerolog.Logger
}

// snapshotWatch holds the latest snapshot pushed by a store subscription.
// The model reconciles dirty watches after every applied page.
type snapshotWatch struct {
	snap  feed.Snapshot
	dirty bool
}

type Model struct {
	service    Service
	grid       *feed.Controller
	reels      *feed.Controller
	gridWatch  *snapshotWatch
	reelsWatch *snapshotWatch
	unsubs     []func()

	engine    *layout.Engine
	columns   []layout.Column
	columnsFn func(int) int

	coord   *playback.Coordinator
	host    *media.Host
	norm    *input.Normalizer
	spin    spinner.Model
	th      tuitheme.Theme
	log     zerolog.Logger
	breaker BreakerReporter

	mode        string
	categories  []string
	categoryIdx int
	filter      string
	selectedID  string
	pendingJump string
	showHelp    bool
	width       int
	height      int
	status      string
	statusID    int
	err         error

	nowFn     func() time.Time
	fetchFn   func(name string, req feed.Request) tea.Cmd
	bufferFn  func(id string, epoch uint64, delay time.Duration) tea.Cmd
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service Service, host *media.Host, opts Options) Model {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = []string{"for-you"}
	}
	columnsFn := opts.Columns
	if columnsFn == nil {
		columnsFn = func(int) int { return 2 }
	}
	prefs := opts.Preferences
	logger := opts.Logger.With().Str("component", "tui").Logger()

	m := Model{
		service:    service,
		grid:       service.Grid(),
		reels:      service.Reels(),
		gridWatch:  &snapshotWatch{},
		reelsWatch: &snapshotWatch{},
		engine:     layout.NewEngine(),
		columnsFn:  columnsFn,
		host:       host,
		norm:       input.NewNormalizer(input.DefaultKeyMap(), opts.Input),
		th:         tuitheme.Default(),
		log:        logger,
		breaker:    opts.Breaker,
		mode:       tuiview.ModeGrid,
		categories: categories,
		filter:     prefs.Filter,
		nowFn:      time.Now,
		bufferFn:   actions.BufferCmd,
		openURLFn:  tuiplatform.OpenURLInBrowser,
		copyURLFn:  tuiplatform.CopyURLToClipboard,
	}
	if prefs.Mode == storage.ModeReels {
		m.mode = tuiview.ModeReels
	}
	if i := tuistate.IndexByID(categories, prefs.Category); i >= 0 {
		m.categoryIdx = i
	}
	timeout := opts.FetchTimeout
	m.fetchFn = func(name string, req feed.Request) tea.Cmd {
		return actions.FetchPageCmd(name, req, timeout)
	}

	m.coord = playback.NewCoordinator(host, m.reels, opts.Playback, opts.Logger)
	m.coord.SetMuted(prefs.Muted)

	gw, rw := m.gridWatch, m.reelsWatch
	m.unsubs = append(m.unsubs,
		m.grid.Store().Subscribe(func(s feed.Snapshot) { gw.snap, gw.dirty = s, true }),
		m.reels.Store().Subscribe(func(s feed.Snapshot) { rw.snap, rw.dirty = s, true }),
	)

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = m.th.StateLoad
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := m.startQuery()
	cmds = append(cmds, m.spin.Tick, actions.PlaybackTickCmd(playbackTick))
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil
	case spinner.TickMsg:
		if !m.grid.Loading() && !m.reels.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case actions.PlaybackTickMsg:
		return m, actions.PlaybackTickCmd(playbackTick)
	case actions.PageLoadedMsg:
		return m.applyPage(msg)
	case actions.MediaReadyMsg:
		if msg.Epoch != m.host.Epoch() {
			m.log.Debug().Str("item", msg.ID).Msg("dropped ready report from a previous query")
			return m, nil
		}
		m.host.MarkBuffered(msg.ID)
		m.grid.MarkReady(msg.ID)
		m.reels.MarkReady(msg.ID)
		return m, tea.Batch(m.syncViews()...)
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	case actions.PreferenceSaveErrorMsg:
		m.err = msg.Err
		m.log.Warn().Err(msg.Err).Msg("persist preferences failed")
		return m.withStatus("Could not persist preferences")
	case actions.ViewRecordErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("record view failed")
		return m, nil
	case actions.OpenURLSuccessMsg:
		return m.withStatus(msg.Status)
	case actions.OpenURLErrorMsg:
		m.err = msg.Err
		return m.withStatus("Could not open media URL")
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "ctrl+c", "q":
		return m.quit()
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m.switchCategory(1)
	case "shift+tab":
		return m.switchCategory(-1)
	case "f":
		return m.toggleFilter()
	case "r":
		return m.retry()
	}

	if m.mode == tuiview.ModeReels {
		return m.handleReelsKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return m.moveSelection(0, -1)
	case "down", "j":
		return m.moveSelection(0, 1)
	case "left", "h":
		return m.moveSelection(-1, 0)
	case "right", "l":
		return m.moveSelection(1, 0)
	case "enter":
		if m.selectedID == "" {
			return m, nil
		}
		return m.enterReels(m.selectedID)
	case "v":
		return m.enterReels("")
	case "n":
		return m.loadMoreGrid()
	case "o":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.openMedia(it)
	case "y":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.copyMedia(it)
	}
	return m, nil
}

func (m Model) handleReelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sig, ok := m.norm.Normalize(msg, m.nowFn()); ok {
		return m, tea.Batch(m.handleStep(m.coord.Advance(int(sig.Direction)))...)
	}
	switch msg.String() {
	case "p":
		m.coord.SetPlaying(!m.coord.Session().Playing)
		return m, nil
	case "m":
		m.coord.SetMuted(!m.coord.Session().Muted)
		return m, m.persistPreferences()
	case "o":
		it, ok := m.coord.Current()
		if !ok {
			return m, nil
		}
		return m.openMedia(it)
	case "y":
		it, ok := m.coord.Current()
		if !ok {
			return m, nil
		}
		return m.copyMedia(it)
	case "esc", "backspace", "v":
		return m.enterGrid()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	if m.mode == tuiview.ModeGrid {
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
			return m.moveSelection(0, 1)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
			return m.moveSelection(0, -1)
		}
		return m, nil
	}

	if sig, ok := m.norm.Normalize(msg, m.nowFn()); ok {
		return m, tea.Batch(m.handleStep(m.coord.Advance(int(sig.Direction)))...)
	}
	// A release without enough vertical travel is a click.
	if msg.Action == tea.MouseActionRelease && msg.Y == reelDotsRow {
		if idx, ok := tuiview.DotAt(msg.X, m.coord.Len(), m.coord.Session().Index); ok {
			return m, tea.Batch(m.handleStep(m.coord.JumpTo(idx))...)
		}
	}
	return m, nil
}

func (m Model) applyPage(msg actions.PageLoadedMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller(msg.Feed)
	if ctrl == nil {
		return m, nil
	}
	out, err := ctrl.Apply(msg.Result)
	switch out {
	case feed.Stale:
		m.log.Debug().Str("feed", msg.Feed).Int("page", msg.Result.Page()).Msg("dropped stale page")
		return m, nil
	case feed.Failed:
		m.err = err
		m.log.Warn().Err(err).Str("feed", msg.Feed).Int("page", msg.Result.Page()).Bool("retryable", feed.IsRetryable(err)).Msg("page fetch failed")
		if feed.IsRetryable(err) {
			return m.withStatus("Fetch failed, press r to retry")
		}
		return m, nil
	}

	m.log.Debug().
		Str("feed", msg.Feed).
		Int("page", msg.Result.Page()).
		Dur("duration", msg.Duration).
		Msg("page applied")
	if m.grid.LastError() == nil && m.reels.LastError() == nil {
		m.err = nil
	}

	m.reconcileReady(ctrl)
	cmds := m.syncViews()
	if ctrl == m.reels && m.pendingJump != "" {
		cmds = append(cmds, m.resolvePendingJump()...)
	}
	return m, tea.Batch(cmds...)
}

// syncViews brings the grid layout and the reels coordinator up to date with
// whatever the stores published since the last call.
func (m *Model) syncViews() []tea.Cmd {
	var cmds []tea.Cmd
	if m.gridWatch.dirty {
		m.gridWatch.dirty = false
		m.relayout()
		// Every laid out card gets a unit so it can fade in.
		m.host.Preload(itemIDs(m.gridWatch.snap.Items))
	}
	if m.reelsWatch.dirty {
		m.reelsWatch.dirty = false
		step := m.coord.Sync(m.reelsWatch.snap)
		if m.mode != tuiview.ModeReels && m.coord.Session().Playing {
			m.coord.SetPlaying(false)
		}
		cmds = append(cmds, m.handleStep(step)...)
	}
	return append(cmds, m.drainBuffering()...)
}

// reconcileReady marks items whose unit already finished buffering, e.g.
// through the other feed.
func (m *Model) reconcileReady(ctrl *feed.Controller) {
	for _, it := range ctrl.Store().Items() {
		if it.Ready {
			continue
		}
		if u, ok := m.host.Lookup(it.ID); ok && u.Buffered() {
			ctrl.MarkReady(it.ID)
		}
	}
}

func (m *Model) drainBuffering() []tea.Cmd {
	var cmds []tea.Cmd
	epoch := m.host.Epoch()
	for _, id := range m.host.DrainBuffering() {
		cmds = append(cmds, m.bufferFn(id, epoch, m.host.BufferDelay()))
	}
	return cmds
}

func (m *Model) relayout() {
	cols := max(m.columnsFn(m.width), 1)
	columns, err := m.engine.Sync(m.gridWatch.snap, cols)
	if err != nil {
		m.log.Error().Err(err).Int("columns", cols).Msg("grid layout failed")
		return
	}
	m.columns = columns
	ids := tuiview.ColumnIDs(columns)
	if _, _, ok := tuistate.GridPosition(ids, m.selectedID); !ok {
		m.selectedID, _ = tuistate.FirstInGrid(ids)
	}
}

// handleStep turns a coordinator step into commands: more pages when the
// viewer nears the end, a view record when the item changed, and buffering
// timers for every unit the host started.
func (m *Model) handleStep(step playback.Step) []tea.Cmd {
	var cmds []tea.Cmd
	if step.FetchMore {
		cmds = append(cmds, m.nextPage(m.reels)...)
	}
	if step.Moved && m.mode == tuiview.ModeReels && m.pendingJump == "" {
		if it, ok := m.coord.Current(); ok {
			cmds = append(cmds, actions.RecordViewCmd(m.service.RecordView, it, m.queryKey()))
		}
	}
	return append(cmds, m.drainBuffering()...)
}

func (m *Model) nextPage(ctrl *feed.Controller) []tea.Cmd {
	req, out := ctrl.Next()
	if out != feed.Started {
		return nil
	}
	return []tea.Cmd{m.fetchFn(ctrl.Name(), req), m.spin.Tick}
}

func (m Model) startQuery() []tea.Cmd {
	key := m.queryKey()
	var cmds []tea.Cmd
	for _, ctrl := range []*feed.Controller{m.grid, m.reels} {
		if req, out := ctrl.SetQuery(key); out == feed.Started {
			cmds = append(cmds, m.fetchFn(ctrl.Name(), req))
		}
	}
	return cmds
}

func (m Model) moveSelection(dc, dr int) (tea.Model, tea.Cmd) {
	ids := tuiview.ColumnIDs(m.columns)
	col, row, ok := tuistate.GridPosition(ids, m.selectedID)
	if !ok {
		m.selectedID, _ = tuistate.FirstInGrid(ids)
		return m, nil
	}
	atEnd := tuistate.AtColumnEnd(ids, col, row)
	col, row = tuistate.MoveInGrid(ids, col, row, dc, dr)
	if col < len(ids) && row < len(ids[col]) {
		m.selectedID = ids[col][row]
	}
	if dr > 0 && atEnd {
		return m, tea.Batch(m.nextPage(m.grid)...)
	}
	return m, nil
}

func (m Model) loadMoreGrid() (tea.Model, tea.Cmd) {
	switch {
	case m.grid.Loading():
		return m.withStatus("Already loading")
	case m.grid.Exhausted():
		return m.withStatus("No more items")
	}
	return m, tea.Batch(m.nextPage(m.grid)...)
}

func (m Model) retry() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, ctrl := range []*feed.Controller{m.grid, m.reels} {
		if ctrl.LastError() != nil {
			cmds = append(cmds, m.nextPage(ctrl)...)
		}
	}
	if len(cmds) == 0 {
		return m.withStatus("Nothing to retry")
	}
	m.err = nil
	m.status = "Retrying..."
	return m, tea.Batch(cmds...)
}

func (m Model) switchCategory(delta int) (tea.Model, tea.Cmd) {
	n := len(m.categories)
	m.categoryIdx = ((m.categoryIdx+delta)%n + n) % n
	return m.requery()
}

func (m Model) toggleFilter() (tea.Model, tea.Cmd) {
	if m.filter == filterNewItems {
		m.filter = ""
	} else {
		m.filter = filterNewItems
	}
	return m.requery()
}

func (m Model) requery() (tea.Model, tea.Cmd) {
	m.pendingJump = ""
	m.err = nil
	// Units of the previous query are never played again.
	m.coord.Close()
	m.host.Forget()
	cmds := m.startQuery()
	cmds = append(cmds, m.spin.Tick, m.persistPreferences())
	m.statusID++
	m.status = "Showing " + m.queryKey().String()
	cmds = append(cmds, actions.ClearStatusCmd(m.statusID, statusTTL))
	return m, tea.Batch(cmds...)
}

// enterReels switches to reels mode. A non-empty id starts playback at that
// item, paging the reels feed forward until it shows up.
func (m Model) enterReels(id string) (tea.Model, tea.Cmd) {
	m.mode = tuiview.ModeReels
	cmds := []tea.Cmd{m.persistPreferences()}
	if m.coord.State() == playback.Ready && id == "" {
		m.coord.SetPlaying(true)
		if it, ok := m.coord.Current(); ok {
			cmds = append(cmds, actions.RecordViewCmd(m.service.RecordView, it, m.queryKey()))
		}
		return m, tea.Batch(cmds...)
	}
	if id != "" {
		m.pendingJump = id
		cmds = append(cmds, m.resolvePendingJump()...)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) resolvePendingJump() []tea.Cmd {
	ids := itemIDs(m.reelsWatch.snap.Items)
	if idx := tuistate.IndexByID(ids, m.pendingJump); idx >= 0 {
		m.pendingJump = ""
		return m.handleStep(m.coord.JumpTo(idx))
	}
	if m.reels.Exhausted() && !m.reels.Loading() {
		m.pendingJump = ""
		m.statusID++
		m.status = "Item is no longer in the feed"
		return []tea.Cmd{actions.ClearStatusCmd(m.statusID, statusTTL)}
	}
	if m.reels.Loading() {
		return nil
	}
	return m.nextPage(m.reels)
}

func (m Model) enterGrid() (tea.Model, tea.Cmd) {
	m.mode = tuiview.ModeGrid
	m.pendingJump = ""
	m.coord.SetPlaying(false)
	if id := m.coord.ActiveID(); id != "" {
		if _, _, ok := tuistate.GridPosition(tuiview.ColumnIDs(m.columns), id); ok {
			m.selectedID = id
		}
	}
	return m, m.persistPreferences()
}

func (m Model) openMedia(it feed.Item) (tea.Model, tea.Cmd) {
	url, err := tuiplatform.ValidateMediaURL(it.Media.URL)
	if err != nil {
		m.err = err
		return m.withStatus("Item has no playable URL")
	}
	return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) copyMedia(it feed.Item) (tea.Model, tea.Cmd) {
	url, err := tuiplatform.ValidateMediaURL(it.Media.URL)
	if err != nil {
		m.err = err
		return m.withStatus("Item has no playable URL")
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.coord.Close()
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	return m, tea.Quit
}

func (m Model) withStatus(status string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = status
	return m, actions.ClearStatusCmd(m.statusID, statusTTL)
}

func (m Model) persistPreferences() tea.Cmd {
	return actions.PersistPreferencesCmd(m.service.SavePreferences, m.preferences())
}

func (m Model) preferences() storage.Preferences {
	mode := storage.ModeGrid
	if m.mode == tuiview.ModeReels {
		mode = storage.ModeReels
	}
	return storage.Preferences{
		Muted:    m.coord.Session().Muted,
		Mode:     mode,
		Category: m.categories[m.categoryIdx],
		Filter:   m.filter,
	}
}

func (m Model) queryKey() feed.QueryKey {
	return feed.QueryKey{Category: m.categories[m.categoryIdx], Filter: m.filter}
}

func (m Model) controller(name string) *feed.Controller {
	switch name {
	case m.grid.Name():
		return m.grid
	case m.reels.Name():
		return m.reels
	}
	return nil
}

func (m Model) selectedItem() (feed.Item, bool) {
	for _, col := range m.columns {
		for _, it := range col.Items {
			if it.ID == m.selectedID {
				return it, true
			}
		}
	}
	return feed.Item{}, false
}

func (m Model) activeController() *feed.Controller {
	if m.mode == tuiview.ModeReels {
		return m.reels
	}
	return m.grid
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(tuiview.Header(m.mode, m.queryKey().String(), m.th))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.mode))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(strings.Join(tuiview.HelpLines(m.norm.Help()), "\n"))
		b.WriteString("\n")
	} else if m.mode == tuiview.ModeReels {
		b.WriteString(m.reelView())
		b.WriteString("\n")
	} else {
		b.WriteString(m.gridView())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 24
	}
	return max(m.height-chromeRows-bottomRows, 4)
}

func (m Model) bodyWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) gridView() string {
	if len(m.columns) == 0 || m.grid.Store().Len() == 0 {
		if m.grid.Loading() {
			return m.spin.View() + " Loading feed..."
		}
		return "No items in this feed."
	}
	return tuiview.RenderGrid(tuiview.GridInput{
		Columns:    m.columns,
		Width:      m.bodyWidth(),
		Height:     m.bodyHeight(),
		SelectedID: m.selectedID,
	}, m.th)
}

func (m Model) reelView() string {
	sess := m.coord.Session()
	in := tuiview.ReelInput{
		Index:     sess.Index,
		Total:     m.coord.Len(),
		Playing:   sess.Playing,
		Muted:     sess.Muted,
		Width:     m.bodyWidth(),
		Height:    m.bodyHeight(),
		Loading:   m.reels.Loading(),
		Exhausted: m.reels.Exhausted(),
		Spinner:   m.spin.View(),
	}
	if it, ok := m.coord.Current(); ok {
		in.Item, in.HasItem = it, true
		if unit, ok := m.host.Lookup(it.ID); ok {
			in.Buffered = unit.Buffered()
			in.Progress = unit.Progress()
		}
	}
	return tuiview.RenderReel(in, m.th)
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	loading := m.activeController().Loading()
	return tuiview.Message(loading, m.err != nil, m.status, warning, m.spin.View(), m.th)
}

func (m Model) footer() string {
	ctrl := m.activeController()
	info := tuiview.FooterInfo{
		Mode:      m.mode,
		Query:     m.queryKey().String(),
		Pages:     ctrl.LoadedPages(),
		Shown:     ctrl.Store().Len(),
		Columns:   len(m.columns),
		Exhausted: ctrl.Exhausted(),
	}
	if m.breaker != nil {
		info.Breaker = m.breaker.BreakerState()
	}
	return tuiview.Footer(info, m.th)
}

func itemIDs(items []feed.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
