// Package tui is the interactive customizer: a bubbletea program that renders
// a customization session and turns key presses into session commands.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
	"github.com/azzeddinezrarqi1/lacaravella/internal/drafts"
)

const (
	DefaultNoticeTTL     = 3 * time.Second
	DefaultAutosaveDelay = 500 * time.Millisecond

	MsgDraftRestored = "Restored your saved customization"
)

type Deps struct {
	Pricer   customizer.Pricer
	Cart     customizer.Cart
	Drafts   drafts.Store
	Logger   *zap.Logger
	Catalog  catalog.Catalog
	Product  catalog.Product
	Currency string

	NoticeTTL     time.Duration
	AutosaveDelay time.Duration
}

type (
	cartDoneMsg      struct{ err error }
	noticeExpiredMsg struct{ id int }
	saveDueMsg       struct{ seq int }
	savedMsg         struct {
		err  error
		quit bool
	}
)

type Model struct {
	ctx       context.Context
	session   *customizer.Session
	screen    *screen
	queue     *queue
	drafts    drafts.Store
	saveMu    *sync.Mutex
	logger    *zap.Logger
	productID int
	currency  string

	noticeTTL     time.Duration
	autosaveDelay time.Duration

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	section    int
	cursors    []int
	submitting bool
	saveSeq    int
	saved      bool
	quitting   bool
}

// New builds the session behind the UI, installs the catalog and product and
// restores the product's saved draft if there is one. Work the session
// schedules is started by Init.
func New(ctx context.Context, d Deps) Model {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.NoticeTTL <= 0 {
		d.NoticeTTL = DefaultNoticeTTL
	}
	if d.AutosaveDelay <= 0 {
		d.AutosaveDelay = DefaultAutosaveDelay
	}

	scr := newScreen()
	q := &queue{}
	session := customizer.NewSession(customizer.Deps{
		Pricer:   d.Pricer,
		Cart:     d.Cart,
		View:     scr,
		Notifier: scr,
		Run:      q.run,
		Logger:   d.Logger,
	})
	session.SetCatalog(d.Catalog)
	session.SetProduct(d.Product)

	m := Model{
		ctx:           ctx,
		session:       session,
		screen:        scr,
		queue:         q,
		drafts:        d.Drafts,
		saveMu:        &sync.Mutex{},
		logger:        d.Logger,
		productID:     d.Product.ID,
		currency:      d.Currency,
		noticeTTL:     d.NoticeTTL,
		autosaveDelay: d.AutosaveDelay,
		keys:          defaultKeys(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		cursors:       make([]int, len(catalog.Kinds)),
	}
	m.restoreDraft()
	return m
}

func (m *Model) restoreDraft() {
	if m.drafts == nil {
		return
	}
	d, err := m.drafts.Get(m.ctx, m.productID)
	if err != nil {
		m.logger.Warn("load draft failed", zap.Int("product_id", m.productID), zap.Error(err))
		return
	}
	if d == nil || d.Selection.IsEmpty() {
		return
	}
	m.session.Restore(d.Selection)
	m.screen.Notify(customizer.LevelInfo, MsgDraftRestored)
	m.logger.Debug("draft restored", zap.Int("product_id", m.productID), zap.Time("updated_at", d.UpdatedAt))
}

// Session exposes the session driven by the UI.
func (m Model) Session() *customizer.Session { return m.session }

func (m Model) Init() tea.Cmd {
	cmds := m.queue.drain(m.ctx)
	cmds = append(cmds, m.spinner.Tick, m.expireNotice())
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case taskDoneMsg:
		return m, nil

	case cartDoneMsg:
		m.submitting = false
		cmds := []tea.Cmd{m.expireNotice()}
		if msg.err == nil {
			// The session reset itself; drop the draft with it.
			cmds = append(cmds, m.saveNow(false))
		}
		return m, tea.Batch(cmds...)

	case noticeExpiredMsg:
		m.screen.clearNotice(msg.id)
		return m, nil

	case saveDueMsg:
		if msg.seq != m.saveSeq {
			return m, nil
		}
		return m, m.saveNow(false)

	case savedMsg:
		if msg.err != nil {
			m.logger.Warn("autosave failed", zap.Int("product_id", m.productID), zap.Error(msg.err))
		} else {
			m.saved = true
		}
		if msg.quit {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if save := m.saveNow(true); save != nil {
			return m, save
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Next):
		m.section = (m.section + 1) % len(catalog.Kinds)

	case key.Matches(msg, m.keys.Prev):
		m.section = (m.section + len(catalog.Kinds) - 1) % len(catalog.Kinds)

	case key.Matches(msg, m.keys.Choose):
		opt, ok := m.current()
		if !ok {
			return m, nil
		}
		switch opt.Kind {
		case catalog.KindFlavor:
			m.session.SelectFlavor(opt.ID)
		case catalog.KindSize:
			m.session.SelectSize(opt.ID)
		default:
			m.session.AdjustQuantity(opt.ID, 1)
		}
		return m, m.afterMutation()

	case key.Matches(msg, m.keys.More), key.Matches(msg, m.keys.Less):
		opt, ok := m.current()
		if !ok || !opt.Quantified() {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, m.keys.Less) {
			delta = -1
		}
		m.session.AdjustQuantity(opt.ID, delta)
		return m, m.afterMutation()

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		return m, m.afterMutation()

	case key.Matches(msg, m.keys.AddToBag):
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		return m, m.submit()
	}
	return m, nil
}

// current returns the option under the cursor in the active section.
func (m Model) current() (catalog.Option, bool) {
	opts := m.screen.frame().options[catalog.Kinds[m.section]]
	i := m.cursors[m.section]
	if i < 0 || i >= len(opts) {
		return catalog.Option{}, false
	}
	return opts[i], true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.screen.frame().options[catalog.Kinds[m.section]])
	if n == 0 {
		return
	}
	c := m.cursors[m.section] + delta
	switch {
	case c < 0:
		c = 0
	case c >= n:
		c = n - 1
	}
	m.cursors[m.section] = c
}

// afterMutation starts the work the session queued and schedules an
// autosave once the user pauses.
func (m *Model) afterMutation() tea.Cmd {
	cmds := m.queue.drain(m.ctx)
	if m.drafts != nil {
		m.saveSeq++
		m.saved = false
		seq := m.saveSeq
		cmds = append(cmds, tea.Tick(m.autosaveDelay, func(time.Time) tea.Msg {
			return saveDueMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

func (m Model) submit() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return cartDoneMsg{err: session.SubmitToCart(ctx)}
	}
}

// saveNow writes the session's current selection as the product's draft.
// The selection is read under saveMu so overlapping saves cannot write an
// older selection last.
func (m Model) saveNow(quit bool) tea.Cmd {
	if m.drafts == nil {
		return nil
	}
	ctx, store, session, mu, id := m.ctx, m.drafts, m.session, m.saveMu, m.productID
	return func() tea.Msg {
		mu.Lock()
		defer mu.Unlock()
		err := store.Put(ctx, &drafts.Draft{ProductID: id, Selection: session.Selection()})
		return savedMsg{err: err, quit: quit}
	}
}

func (m Model) expireNotice() tea.Cmd {
	id := m.screen.noticeID()
	if id == 0 {
		return nil
	}
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
