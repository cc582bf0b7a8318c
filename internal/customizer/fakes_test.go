package customizer

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

var (
	vanilla   = catalog.Option{ID: 1, Kind: catalog.KindFlavor, Name: "Vanille", Price: decimal.Zero}
	pistachio = catalog.Option{ID: 2, Kind: catalog.KindFlavor, Name: "Pistache", Price: decimal.NewFromInt(5)}
	almonds   = catalog.Option{ID: 10, Kind: catalog.KindTopping, Name: "Amandes", Price: decimal.NewFromInt(3)}
	sprinkles = catalog.Option{ID: 11, Kind: catalog.KindTopping, Name: "Vermicelles", Price: decimal.NewFromInt(2), MaxSelections: 2}
	caramel   = catalog.Option{ID: 20, Kind: catalog.KindSauce, Name: "Caramel", Price: decimal.RequireFromString("2.5")}
	small     = catalog.Option{ID: 30, Kind: catalog.KindSize, Name: "Petit", Price: decimal.Zero}
	large     = catalog.Option{ID: 31, Kind: catalog.KindSize, Name: "Grand", Price: decimal.NewFromInt(8)}

	cone = catalog.Product{ID: 42, Name: "Cornet Caravela", BasePrice: decimal.NewFromInt(20)}
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Flavors:  []catalog.Option{vanilla, pistachio},
		Toppings: []catalog.Option{almonds, sprinkles},
		Sauces:   []catalog.Option{caramel},
		Sizes:    []catalog.Option{small, large},
	}
}

// echoPricer prices a request the way the storefront does: base price plus
// the flavor modifier plus unit price times quantity for each customization.
type echoPricer struct {
	mu       sync.Mutex
	base     decimal.Decimal
	catalog  catalog.Catalog
	err      error
	requests []PriceRequest

	// gate, when set, blocks the next call until closed.
	gate chan struct{}
}

func (p *echoPricer) CalculatePrice(ctx context.Context, req PriceRequest) (decimal.Decimal, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	gate := p.gate
	p.gate = nil
	err := p.err
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return decimal.Zero, err
	}

	total := p.base
	if req.FlavorID != nil {
		if f, ok := p.catalog.Find(catalog.KindFlavor, *req.FlavorID); ok {
			total = total.Add(f.Price)
		}
	}
	for _, line := range req.Customizations {
		if o, ok := p.catalog.Customization(line.OptionID); ok {
			total = total.Add(o.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return total, nil
}

func (p *echoPricer) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *echoPricer) lastRequest() PriceRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

type fakeCart struct {
	receipt  CartReceipt
	err      error
	payloads []CartPayload
}

func (c *fakeCart) AddToCart(ctx context.Context, payload CartPayload) (CartReceipt, error) {
	c.payloads = append(c.payloads, payload)
	return c.receipt, c.err
}

type notice struct {
	level   Level
	message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{level: level, message: message})
}

func (n *recordingNotifier) last() notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return notice{}
	}
	return n.notices[len(n.notices)-1]
}

type recordingView struct {
	options   map[catalog.Kind][]catalog.Option
	selection Selection
	summary   []SummaryLine
	total     decimal.Decimal
	totals    int
	cartCount int
}

func newRecordingView() *recordingView {
	return &recordingView{options: map[catalog.Kind][]catalog.Option{}}
}

func (v *recordingView) RenderOptions(kind catalog.Kind, options []catalog.Option) {
	v.options[kind] = options
}
func (v *recordingView) RenderSelection(sel Selection)     { v.selection = sel }
func (v *recordingView) RenderSummary(lines []SummaryLine) { v.summary = lines }
func (v *recordingView) RenderTotal(total decimal.Decimal) { v.total = total; v.totals++ }
func (v *recordingView) RenderCartCount(count int)         { v.cartCount = count }

// taskQueue is a Runner that holds tasks until the test runs them.
type taskQueue struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context)
}

func (q *taskQueue) run(task func(ctx context.Context)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *taskQueue) pop() func(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t
}

func (q *taskQueue) drain(ctx context.Context) {
	for t := q.pop(); t != nil; t = q.pop() {
		t(ctx)
	}
}
