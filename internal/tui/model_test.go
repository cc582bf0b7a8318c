package tui

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/azzeddinezrarqi1/lacaravella/internal/clients"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
	"github.com/azzeddinezrarqi1/lacaravella/internal/drafts"
	"github.com/azzeddinezrarqi1/lacaravella/internal/testutil"
)

func newTestModel(t *testing.T, store drafts.Store) (Model, *testutil.Storefront) {
	t.Helper()
	ctx := context.Background()
	sf := testutil.NewStorefront(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := clients.NewClient("storefront", sf.URL(), &http.Client{Jar: jar}, clients.CookieToken{Jar: jar})
	require.NoError(t, err)

	cc := clients.NewCatalogClient(base, testutil.APIBase)
	cat, err := cc.CustomizationOptions(ctx)
	require.NoError(t, err)
	product, err := cc.GetProduct(ctx, testutil.ProductID)
	require.NoError(t, err)

	m := New(ctx, Deps{
		Pricer:        clients.NewPricingClient(base, testutil.APIBase),
		Cart:          clients.NewCartClient(base),
		Drafts:        store,
		Logger:        zaptest.NewLogger(t),
		Catalog:       cat,
		Product:       product,
		Currency:      "MAD",
		NoticeTTL:     time.Millisecond,
		AutosaveDelay: time.Millisecond,
	})
	m, _ = drive(t, m, m.Init())
	return m, sf
}

// drive runs cmd and feeds the resulting messages back into the model until
// no work is left. Spinner ticks and notice expiries are recorded but not
// delivered, so tests can inspect notices.
func drive(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
			continue
		case spinner.TickMsg, noticeExpiredMsg, tea.QuitMsg:
			seen = append(seen, msg)
			continue
		}
		seen = append(seen, msg)
		next, nc := m.Update(msg)
		m = next.(Model)
		pending = append(pending, nc)
	}
	return m, seen
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press delivers keys one by one, settling the work each one starts.
func press(t *testing.T, m Model, keys ...string) (Model, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = next.(Model)
		var msgs []tea.Msg
		m, msgs = drive(t, m, cmd)
		seen = append(seen, msgs...)
	}
	return m, seen
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInitPricesProduct(t *testing.T) {
	m, sf := newTestModel(t, nil)

	assert.True(t, m.Session().Total().Equal(money("20")))
	assert.Len(t, sf.RequestsTo(testutil.APIBase+"calculate-price/"), 1)

	view := m.View()
	assert.Contains(t, view, "Royal Cone")
	assert.Contains(t, view, "20.00 MAD")
	assert.Contains(t, view, "Pistachio")
	assert.Contains(t, view, "+5.00 MAD")
}

func TestChooseFlavorAndToppings(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "down", "enter", "tab", "enter", "+")

	sel := m.Session().Selection()
	require.NotNil(t, sel.FlavorID)
	assert.Equal(t, testutil.Pistachio, *sel.FlavorID)
	assert.Equal(t, 2, sel.Quantity(testutil.Almonds))
	assert.True(t, m.Session().Total().Equal(money("31")), "got %s", m.Session().Total())

	view := m.View()
	assert.Contains(t, view, "[2]")
	assert.Contains(t, view, "31.00 MAD")
	assert.Contains(t, view, "Almonds x2")
}

func TestChooseReplacesFlavorAndSize(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "enter", "down", "enter")
	assert.Equal(t, testutil.Pistachio, *m.Session().Selection().FlavorID)

	m, _ = press(t, m, "shift+tab", "enter", "down", "enter")
	assert.Equal(t, testutil.Large, *m.Session().Selection().SizeID)
}

func TestLessNeverGoesBelowZero(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "tab", "+", "-", "-")

	sel := m.Session().Selection()
	assert.Equal(t, 0, sel.Quantity(testutil.Almonds))
	_, stored := sel.Quantities[testutil.Almonds]
	assert.False(t, stored)
}

func TestQuantityKeysIgnoredOnExclusiveSections(t *testing.T) {
	m, sf := newTestModel(t, nil)
	before := len(sf.Requests())

	m, _ = press(t, m, "+", "-")

	assert.True(t, m.Session().Selection().IsEmpty())
	assert.Len(t, sf.Requests(), before)
}

func TestMaxSelectionsCapsQuantity(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "tab", "down", "+", "+", "+")

	assert.Equal(t, 2, m.Session().Selection().Quantity(testutil.Sprinkles))
	assert.Contains(t, m.View(), "max 2")
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "up", "up", "down", "down", "down")
	assert.Equal(t, 1, m.cursors[0])
}

func TestResetClearsSelection(t *testing.T) {
	m, sf := newTestModel(t, nil)
	m, _ = press(t, m, "down", "enter", "tab", "+")
	priced := len(sf.RequestsTo(testutil.APIBase + "calculate-price/"))

	m, _ = press(t, m, "r")

	assert.True(t, m.Session().Selection().IsEmpty())
	assert.True(t, m.Session().Total().Equal(money("20")))
	assert.Len(t, sf.RequestsTo(testutil.APIBase+"calculate-price/"), priced, "reset is local")
}

func TestAddToCartSuccess(t *testing.T) {
	store := drafts.NewMemoryStore()
	m, sf := newTestModel(t, store)
	m, _ = press(t, m, "down", "enter")

	m, seen := press(t, m, "a")

	assert.Contains(t, seen, tea.Msg(cartDoneMsg{}))
	assert.Equal(t, 1, sf.CartCount())
	assert.Equal(t, 1, m.Session().CartCount())
	assert.True(t, m.Session().Selection().IsEmpty())

	f := m.screen.frame()
	require.NotNil(t, f.notice)
	assert.Equal(t, customizer.LevelSuccess, f.notice.level)
	assert.Equal(t, customizer.MsgAddedToCart, f.notice.text)
	assert.Contains(t, m.View(), "cart: 1")

	d, err := store.Get(context.Background(), testutil.ProductID)
	require.NoError(t, err)
	assert.Nil(t, d, "draft is dropped once the item is in the cart")
}

func TestAddToCartFailureKeepsSelection(t *testing.T) {
	m, sf := newTestModel(t, nil)
	sf.FailCart(http.StatusBadRequest, "Stock insuffisant")
	m, _ = press(t, m, "down", "enter")

	m, _ = press(t, m, "a")

	assert.False(t, m.submitting)
	require.NotNil(t, m.Session().Selection().FlavorID)
	f := m.screen.frame()
	require.NotNil(t, f.notice)
	assert.Equal(t, customizer.LevelError, f.notice.level)
	assert.Equal(t, "Stock insuffisant", f.notice.text)
}

func TestNoticeExpiry(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.screen.Notify(customizer.LevelInfo, "first")
	first := m.screen.noticeID()
	m.screen.Notify(customizer.LevelInfo, "second")

	next, _ := m.Update(noticeExpiredMsg{id: first})
	m = next.(Model)
	require.NotNil(t, m.screen.frame().notice, "an older expiry must not hide a newer notice")

	next, _ = m.Update(noticeExpiredMsg{id: m.screen.noticeID()})
	m = next.(Model)
	assert.Nil(t, m.screen.frame().notice)
}

func TestAutosaveAndRestore(t *testing.T) {
	store := drafts.NewMemoryStore()
	m, _ := newTestModel(t, store)

	m, seen := press(t, m, "down", "enter", "tab", "+")
	assert.Contains(t, seen, tea.Msg(savedMsg{}))
	assert.Contains(t, m.View(), "draft saved")

	d, err := store.Get(context.Background(), testutil.ProductID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, testutil.Pistachio, *d.Selection.FlavorID)
	assert.Equal(t, 1, d.Selection.Quantity(testutil.Almonds))

	restored, _ := newTestModel(t, store)
	sel := restored.Session().Selection()
	require.NotNil(t, sel.FlavorID)
	assert.Equal(t, testutil.Pistachio, *sel.FlavorID)
	assert.Equal(t, 1, sel.Quantity(testutil.Almonds))
	assert.True(t, restored.Session().Total().Equal(money("28")))

	f := restored.screen.frame()
	require.NotNil(t, f.notice)
	assert.Equal(t, MsgDraftRestored, f.notice.text)
}

func TestStaleAutosaveIgnored(t *testing.T) {
	m, _ := newTestModel(t, drafts.NewMemoryStore())
	m, _ = press(t, m, "enter")

	_, cmd := m.Update(saveDueMsg{seq: m.saveSeq - 1})
	assert.Nil(t, cmd)
}

func TestQuitSavesDraftFirst(t *testing.T) {
	store := drafts.NewMemoryStore()
	m, _ := newTestModel(t, store)
	m.session.SelectFlavor(testutil.Vanilla)

	m, seen := press(t, m, "q")

	assert.Contains(t, seen, tea.Msg(tea.QuitMsg{}))
	assert.Empty(t, m.View())
	d, err := store.Get(context.Background(), testutil.ProductID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, testutil.Vanilla, *d.Selection.FlavorID)
}

func TestQuitWithoutStore(t *testing.T) {
	m, _ := newTestModel(t, nil)

	_, seen := press(t, m, "ctrl+c")
	assert.Contains(t, seen, tea.Msg(tea.QuitMsg{}))
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	short := m.View()

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.NotEqual(t, short, m.View())
}
