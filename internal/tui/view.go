package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

var sectionTitles = map[catalog.Kind]string{
	catalog.KindFlavor:  "Flavors",
	catalog.KindTopping: "Toppings",
	catalog.KindSauce:   "Sauces",
	catalog.KindSize:    "Sizes",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	f := m.screen.frame()

	var b strings.Builder
	b.WriteString(m.header(f))
	b.WriteString("\n")

	left := m.sections(f)
	right := summaryStyle.Render(m.summary(f))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n\n")

	if f.notice != nil {
		b.WriteString(noticeStyle(f.notice.level).Render(f.notice.text))
		b.WriteString("\n")
	}
	if m.saved {
		b.WriteString(mutedStyle.Render("draft saved"))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header(f frame) string {
	name := "no product"
	if p, ok := m.session.Product(); ok {
		name = p.Name
	}
	return titleStyle.Render("La Caravela") + " " + name +
		mutedStyle.Render(fmt.Sprintf("   cart: %d", f.cartCount))
}

func (m Model) sections(f frame) string {
	var b strings.Builder
	for i, kind := range catalog.Kinds {
		title := sectionTitles[kind]
		if i == m.section {
			b.WriteString(activeSectionStyle.Render(title))
		} else {
			b.WriteString(sectionStyle.Render(title))
		}
		b.WriteString("\n")

		opts := f.options[kind]
		if len(opts) == 0 {
			b.WriteString(mutedStyle.Render("  none available"))
			b.WriteString("\n")
			continue
		}
		for j, opt := range opts {
			cursor := "  "
			if i == m.section && j == m.cursors[i] {
				cursor = cursorStyle.Render("> ")
			}
			b.WriteString(cursor)
			b.WriteString(m.optionLine(f.sel, opt))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) optionLine(sel customizer.Selection, opt catalog.Option) string {
	var marker string
	chosen := false
	switch opt.Kind {
	case catalog.KindFlavor:
		chosen = sel.FlavorSelected(opt.ID)
	case catalog.KindSize:
		chosen = sel.SizeSelected(opt.ID)
	}

	if opt.Quantified() {
		if q := sel.Quantity(opt.ID); q > 0 {
			marker = selectedStyle.Render(fmt.Sprintf("[%d]", q))
		} else {
			marker = "[ ]"
		}
	} else if chosen {
		marker = selectedStyle.Render("(*)")
	} else {
		marker = "( )"
	}

	price := catalog.FormatPrice(opt.Price, m.currency)
	if opt.Kind == catalog.KindFlavor {
		price = catalog.FormatDelta(opt.Price, m.currency)
	}
	line := fmt.Sprintf("%s %-18s %s", marker, opt.Name, priceStyle.Render(price))
	if opt.Quantified() && opt.MaxSelections > 0 {
		line += mutedStyle.Render(fmt.Sprintf("  max %d", opt.MaxSelections))
	}
	return line
}

func (m Model) summary(f frame) string {
	var b strings.Builder
	for _, l := range f.summary {
		fmt.Fprintf(&b, "%-26s %12s\n", l.Label, catalog.FormatPrice(l.Price, m.currency))
	}

	total := "pricing..."
	if f.priced {
		total = catalog.FormatPrice(f.total, m.currency)
	}
	if m.queue.inflight() > 0 || m.submitting {
		total = m.spinner.View() + " " + total
	}
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf("%-26s %12s", "Total", total)))
	return b.String()
}
