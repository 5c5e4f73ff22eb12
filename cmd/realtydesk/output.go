package main

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/talkincode/realtydesk/internal/analytics"
	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

const columnGap = "  "

// table collects rows and renders them with columns sized by lipgloss.Width.
// Styles come from a renderer bound to the writer, so pipes and files get
// plain text.
type table struct {
	w      io.Writer
	indent string
	header []string
	rows   [][]string

	head  lipgloss.Style
	body  lipgloss.Style
	muted lipgloss.Style
}

func newTable(w io.Writer, header ...string) *table {
	re := lipgloss.NewRenderer(w)
	return &table{
		w:      w,
		header: header,
		head:   re.NewStyle().Bold(true),
		body:   re.NewStyle(),
		muted:  re.NewStyle().Faint(true),
	}
}

func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) flush() error {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	line := func(style lipgloss.Style, cells []string) {
		sb.WriteString(t.indent)
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString(columnGap)
			}
			// the last column is not padded
			if i == len(widths)-1 {
				sb.WriteString(style.Render(cell))
			} else {
				sb.WriteString(style.Width(widths[i]).Render(cell))
			}
		}
		sb.WriteString("\n")
	}

	total := len(columnGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	line(t.head, t.header)
	sb.WriteString(t.indent + t.muted.Render(strings.Repeat("-", total)) + "\n")
	for _, r := range t.rows {
		line(t.body, r)
	}
	_, err := io.WriteString(t.w, sb.String())
	return err
}

func itoa(v int64) string {
	return fmt.Sprint(v)
}

func printProperties(w io.Writer, props iter.Seq[domain.Property]) (int, error) {
	tb := newTable(w, "ID", "ADDRESS", "CITY", "TYPE", "STATUS", "PRICE", "BEDS", "BATHS", "AREA")
	n := 0
	for p := range props {
		tb.row(itoa(p.ID), p.Address, p.City, string(p.Type), string(p.Status),
			common.FormatMoney(p.Price), fmt.Sprint(p.Bedrooms), fmt.Sprint(p.Bathrooms),
			common.FormatInt(int(p.Area)))
		n++
	}
	return n, tb.flush()
}

func printProperty(w io.Writer, p domain.Property) {
	fmt.Fprintf(w, "%d  %s, %s %s %s\n", p.ID, p.Address, p.City, p.State, p.ZipCode)
	fmt.Fprintf(w, "    %s, %s, %s\n", p.Type, p.Status, common.FormatMoney(p.Price))
	fmt.Fprintf(w, "    %d bd / %d ba, %s sq ft", p.Bedrooms, p.Bathrooms, common.FormatInt(int(p.Area)))
	if p.YearBuilt > 0 {
		fmt.Fprintf(w, ", built %d", p.YearBuilt)
	}
	fmt.Fprintln(w)
	if len(p.Features) > 0 {
		fmt.Fprintf(w, "    features: %s\n", strings.Join(p.Features, ", "))
	}
	if p.AgentID != 0 {
		fmt.Fprintf(w, "    agent: %d\n", p.AgentID)
	}
}

func printClients(w io.Writer, clients iter.Seq[domain.Client]) (int, error) {
	tb := newTable(w, "ID", "NAME", "TYPE", "EMAIL", "PHONE", "BUDGET")
	n := 0
	for c := range clients {
		tb.row(itoa(c.ID), c.FullName(), string(c.Type), c.Email, c.Phone, budget(c))
		n++
	}
	return n, tb.flush()
}

func budget(c domain.Client) string {
	switch {
	case c.BudgetMin == 0 && c.BudgetMax == 0:
		return "-"
	case c.BudgetMax == 0:
		return common.FormatMoney(c.BudgetMin) + "+"
	}
	return common.FormatMoney(c.BudgetMin) + " - " + common.FormatMoney(c.BudgetMax)
}

func printAgents(w io.Writer, agents []domain.Agent) error {
	tb := newTable(w, "ID", "NAME", "EMAIL", "PHONE", "RATE", "SALES", "LISTINGS")
	for _, a := range agents {
		tb.row(itoa(a.ID), a.FullName(), a.Email, a.Phone, fmt.Sprintf("%.4g%%", a.CommissionRate*100),
			common.FormatMoney(a.TotalSales), fmt.Sprint(len(a.AssignedProperties)))
	}
	return tb.flush()
}

func printDeals(w io.Writer, txs []domain.Transaction) error {
	tb := newTable(w, "ID", "PROPERTY", "CLIENT", "AGENT", "KIND", "AMOUNT", "COMMISSION", "DATE", "STATUS")
	for _, tx := range txs {
		agent := "-"
		if tx.AgentID != 0 {
			agent = itoa(tx.AgentID)
		}
		tb.row(itoa(tx.ID), itoa(tx.PropertyID), itoa(tx.ClientID), agent, string(tx.Kind),
			common.FormatMoney(tx.Amount), common.FormatMoney(tx.Commission),
			tx.Date.Format("2006-01-02"), string(tx.Status))
	}
	return tb.flush()
}

func printTrend(w io.Writer, groupBy string, trend map[string]analytics.PriceSummary, overall analytics.PriceSummary) error {
	tb := newTable(w, strings.ToUpper(groupBy), "COUNT", "AVERAGE", "MEDIAN", "MIN", "MAX")
	row := func(key string, s analytics.PriceSummary) {
		tb.row(key, fmt.Sprint(s.Count),
			common.FormatMoney(s.Average), common.FormatMoney(s.Median),
			common.FormatMoney(s.Min), common.FormatMoney(s.Max))
	}
	for _, key := range analytics.SortedKeys(trend) {
		label := key
		if label == "" {
			label = "(none)"
		}
		row(label, trend[key])
	}
	if overall.Count > 0 {
		row("ALL", overall)
	}
	return tb.flush()
}

func printMatches(w io.Writer, all []analytics.ClientMatches) error {
	for i, cm := range all {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d, %s)\n", cm.Client.FullName(), cm.Client.ID, cm.Client.Type)
		if len(cm.Matches) == 0 {
			fmt.Fprintln(w, "  no matching properties")
			continue
		}
		tb := newTable(w, "SCORE", "ID", "ADDRESS", "CITY", "TYPE", "PRICE")
		tb.indent = "  "
		for _, m := range cm.Matches {
			p := m.Property
			tb.row(common.FormatPercent(m.Score), itoa(p.ID), p.Address, p.City,
				string(p.Type), common.FormatMoney(p.Price))
		}
		if err := tb.flush(); err != nil {
			return err
		}
	}
	return nil
}
