package customizer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

// View is the presentation collaborator a Session renders into. Methods are
// called with the session lock held and must not call back into the Session.
type View interface {
	RenderOptions(kind catalog.Kind, options []catalog.Option)
	RenderSelection(sel Selection)
	RenderSummary(lines []SummaryLine)
	RenderTotal(total decimal.Decimal)
	RenderCartCount(count int)
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notifier interface {
	Notify(level Level, message string)
}

// NopView discards every render.
type NopView struct{}

func (NopView) RenderOptions(catalog.Kind, []catalog.Option) {}
func (NopView) RenderSelection(Selection)                    {}
func (NopView) RenderSummary([]SummaryLine)                  {}
func (NopView) RenderTotal(decimal.Decimal)                  {}
func (NopView) RenderCartCount(int)                          {}

type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}

// Runner executes the asynchronous follow-up of a mutation, such as the price
// recomputation. The UI adapter decides where and when the task runs.
type Runner func(task func(ctx context.Context))

// Inline runs tasks synchronously on the caller's goroutine.
func Inline(ctx context.Context) Runner {
	return func(task func(ctx context.Context)) { task(ctx) }
}

// Discard drops tasks. Useful when the caller batches several mutations and
// computes the total once at the end.
func Discard(func(ctx context.Context)) {}
