package tui

import (
	"maps"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

type notice struct {
	id    int
	level customizer.Level
	text  string
}

// screen is what the session renders into. The session calls it from the
// update loop and from command goroutines, so all state sits behind mu and
// the model reads it through frame.
type screen struct {
	mu         sync.Mutex
	options    map[catalog.Kind][]catalog.Option
	sel        customizer.Selection
	summary    []customizer.SummaryLine
	total      decimal.Decimal
	priced     bool
	cartCount  int
	notice     *notice
	lastNotice int
}

type frame struct {
	options   map[catalog.Kind][]catalog.Option
	sel       customizer.Selection
	summary   []customizer.SummaryLine
	total     decimal.Decimal
	priced    bool
	cartCount int
	notice    *notice
}

func newScreen() *screen {
	return &screen{options: map[catalog.Kind][]catalog.Option{}, sel: customizer.NewSelection()}
}

func (s *screen) RenderOptions(kind catalog.Kind, options []catalog.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[kind] = options
}

func (s *screen) RenderSelection(sel customizer.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
}

func (s *screen) RenderSummary(lines []customizer.SummaryLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = lines
}

func (s *screen) RenderTotal(total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.priced = true
}

func (s *screen) RenderCartCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCount = count
}

func (s *screen) Notify(level customizer.Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastNotice++
	s.notice = &notice{id: s.lastNotice, level: level, text: message}
}

// noticeID returns the id of the notice on screen, or 0.
func (s *screen) noticeID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return 0
	}
	return s.notice.id
}

// clearNotice hides the notice with the given id unless a newer one replaced
// it.
func (s *screen) clearNotice(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice != nil && s.notice.id == id {
		s.notice = nil
	}
}

func (s *screen) frame() frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := frame{
		options:   maps.Clone(s.options),
		sel:       s.sel.Clone(),
		summary:   s.summary,
		total:     s.total,
		priced:    s.priced,
		cartCount: s.cartCount,
	}
	if s.notice != nil {
		n := *s.notice
		f.notice = &n
	}
	return f
}

var (
	_ customizer.View     = (*screen)(nil)
	_ customizer.Notifier = (*screen)(nil)
)
