package customizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

const (
	MsgAddedToCart   = "Added to cart!"
	MsgAddToCartFail = "Could not add the item to your cart"
	MsgSelectProduct = "Please select a product"
)

type Deps struct {
	Pricer   Pricer
	Cart     Cart
	View     View
	Notifier Notifier
	Run      Runner
	Logger   *zap.Logger
}

// PricedSelection is a selection together with the last total the pricing
// endpoint returned for it.
type PricedSelection struct {
	Selection Selection
	Total     decimal.Decimal
}

// Session tracks one product's in-progress customization and keeps the view
// consistent with it. Every mutation re-renders and schedules a price
// recomputation through the Runner; responses for superseded selections are
// discarded using a sequence number bumped on each mutation.
type Session struct {
	pricer   Pricer
	cart     Cart
	view     View
	notifier Notifier
	run      Runner
	logger   *zap.Logger

	mu        sync.Mutex
	catalog   catalog.Catalog
	product   *catalog.Product
	sel       Selection
	total     decimal.Decimal
	seq       uint64
	cartCount int
}

func NewSession(d Deps) *Session {
	s := &Session{
		pricer:   d.Pricer,
		cart:     d.Cart,
		view:     d.View,
		notifier: d.Notifier,
		run:      d.Run,
		logger:   d.Logger,
		sel:      NewSelection(),
	}
	if s.view == nil {
		s.view = NopView{}
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.run == nil {
		s.run = Inline(context.Background())
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// SetCatalog installs the options loaded for this session and renders every
// section.
func (s *Session) SetCatalog(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = c
	for _, kind := range catalog.Kinds {
		s.view.RenderOptions(kind, c.Section(kind))
	}
	s.renderLocked()
}

// SetProduct installs the product being customized and prices the current
// selection for it.
func (s *Session) SetProduct(p catalog.Product) {
	s.mu.Lock()
	s.product = &p
	s.seq++
	s.renderLocked()
	s.mu.Unlock()

	s.schedulePrice()
}

// SelectFlavor makes id the only selected flavor. Unknown ids leave the
// selection untouched and report false.
func (s *Session) SelectFlavor(id int) bool {
	return s.selectExclusive(catalog.KindFlavor, id)
}

// SelectSize makes id the only selected size. Unknown ids leave the selection
// untouched and report false.
func (s *Session) SelectSize(id int) bool {
	return s.selectExclusive(catalog.KindSize, id)
}

func (s *Session) selectExclusive(kind catalog.Kind, id int) bool {
	s.mu.Lock()
	if _, ok := s.catalog.Find(kind, id); !ok {
		s.mu.Unlock()
		s.logger.Debug("ignoring unknown option", zap.String("kind", string(kind)), zap.Int("option_id", id))
		return false
	}
	if kind == catalog.KindFlavor {
		s.sel.FlavorID = intPtr(id)
	} else {
		s.sel.SizeID = intPtr(id)
	}
	s.seq++
	s.renderLocked()
	s.mu.Unlock()

	s.schedulePrice()
	return true
}

// AdjustQuantity adds delta to the quantity of optionID, clamping at zero (and
// at the option's max selections when the catalog defines one). Options that
// reach zero are removed from the selection. Returns the new quantity.
func (s *Session) AdjustQuantity(optionID, delta int) int {
	s.mu.Lock()
	limit := 0
	if o, ok := s.catalog.Customization(optionID); ok {
		limit = o.MaxSelections
	}
	q := s.sel.adjust(optionID, delta, limit)
	s.seq++
	s.renderLocked()
	s.mu.Unlock()

	s.schedulePrice()
	return q
}

// Reset clears the selection and re-renders every view without contacting the
// backend. The displayed total falls back to the product's base price and any
// price request still in flight is discarded on arrival.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.sel = NewSelection()
	s.seq++
	s.total = s.basePriceLocked()
	s.renderLocked()
	s.view.RenderTotal(s.total)
}

// Restore installs a previously saved selection. Entries that do not match the
// loaded catalog are dropped, quantities are clamped like AdjustQuantity.
func (s *Session) Restore(saved Selection) {
	s.mu.Lock()
	sel := NewSelection()
	if saved.FlavorID != nil {
		if _, ok := s.catalog.Find(catalog.KindFlavor, *saved.FlavorID); ok {
			sel.FlavorID = intPtr(*saved.FlavorID)
		}
	}
	if saved.SizeID != nil {
		if _, ok := s.catalog.Find(catalog.KindSize, *saved.SizeID); ok {
			sel.SizeID = intPtr(*saved.SizeID)
		}
	}
	for _, id := range saved.OptionIDs() {
		o, ok := s.catalog.Customization(id)
		if !ok {
			continue
		}
		sel.adjust(id, saved.Quantities[id], o.MaxSelections)
	}
	s.sel = sel
	s.seq++
	s.renderLocked()
	s.mu.Unlock()

	s.schedulePrice()
}

// ComputeTotal asks the pricing endpoint for the total of the current
// selection. On success the displayed total is updated, unless the selection
// changed while the request was in flight. On failure the previous total is
// kept and the error is logged and returned. Without a product nothing is
// sent.
func (s *Session) ComputeTotal(ctx context.Context) error {
	s.mu.Lock()
	if s.product == nil {
		s.mu.Unlock()
		return nil
	}
	seq := s.seq
	req := priceRequest(s.product.ID, s.sel)
	s.mu.Unlock()

	total, err := s.pricer.CalculatePrice(ctx, req)
	if err != nil {
		s.logger.Warn("price computation failed",
			zap.Int("product_id", req.ProductID),
			zap.String("kind", apperr.Kind(err)),
			zap.Error(err),
		)
		return fmt.Errorf("compute total: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("discarding stale price", zap.Uint64("seq", seq), zap.Uint64("current", s.seq))
		return nil
	}
	s.total = total
	s.view.RenderTotal(total)
	return nil
}

// SubmitToCart posts the current selection as one assembled item. Without a
// product it reports apperr.ErrMissingProduct before any network call. On
// success the cart count is updated and the session reset; on failure the
// selection is left untouched so the user can retry.
func (s *Session) SubmitToCart(ctx context.Context) error {
	s.mu.Lock()
	if s.product == nil {
		s.mu.Unlock()
		s.notifier.Notify(LevelError, MsgSelectProduct)
		return apperr.ErrMissingProduct
	}
	payload := cartPayload(s.product.ID, s.sel)
	s.mu.Unlock()

	receipt, err := s.cart.AddToCart(ctx, payload)
	if err == nil && !receipt.Success {
		err = apperr.Rejected("add to cart", receipt.Error)
	}
	if err != nil {
		s.logger.Warn("add to cart failed",
			zap.Int("product_id", payload.ProductID),
			zap.String("kind", apperr.Kind(err)),
			zap.Error(err),
		)
		s.notifier.Notify(LevelError, apperr.UserMessage(err, MsgAddToCartFail))
		return fmt.Errorf("submit to cart: %w", err)
	}

	s.notifier.Notify(LevelSuccess, MsgAddedToCart)

	s.mu.Lock()
	defer s.mu.Unlock()
	if receipt.CartCount != nil {
		s.cartCount = *receipt.CartCount
		s.view.RenderCartCount(s.cartCount)
	}
	s.resetLocked()
	s.logger.Info("item added to cart", zap.Int("product_id", payload.ProductID), zap.Int("cart_count", s.cartCount))
	return nil
}

func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Session) Snapshot() PricedSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PricedSelection{Selection: s.sel.Clone(), Total: s.total}
}

func (s *Session) Product() (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.product == nil {
		return catalog.Product{}, false
	}
	return *s.product, true
}

func (s *Session) Catalog() catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCount
}

func (s *Session) Summary() []SummaryLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildSummary(s.product, s.catalog, s.sel)
}

func (s *Session) schedulePrice() {
	s.run(func(ctx context.Context) {
		_ = s.ComputeTotal(ctx)
	})
}

func (s *Session) renderLocked() {
	s.view.RenderSelection(s.sel.Clone())
	s.view.RenderSummary(buildSummary(s.product, s.catalog, s.sel))
}

func (s *Session) basePriceLocked() decimal.Decimal {
	if s.product == nil {
		return decimal.Zero
	}
	return s.product.BasePrice
}
