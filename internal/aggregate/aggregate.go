package aggregate

import (
	"fmt"

	"fundcoinsnap/internal/provider"
)

// Merged is one asset with its quotes across every reference currency.
type Merged struct {
	ID     string
	Name   string
	Quotes map[string]provider.MarketRecord // key: vs
}

// MergeByCurrency collapses per-currency batches into one record per asset id.
// Assets keep the order they were first seen in; a later batch overwrites the name.
func MergeByCurrency(batches []provider.MarketBatch) []Merged {
	index := make(map[string]int)
	var out []Merged
	for _, b := range batches {
		for _, r := range b.Records {
			i, ok := index[r.ID]
			if !ok {
				i = len(out)
				index[r.ID] = i
				out = append(out, Merged{ID: r.ID, Quotes: make(map[string]provider.MarketRecord)})
			}
			out[i].Name = r.Name
			out[i].Quotes[b.VS] = r
		}
	}
	return out
}

// Columns returns the wide header: id, name, then price and one change column
// per window for each vs, e.g. price_usd, chg_1h_pct_usd, ..., chg_30d_pct_usd.
func Columns(vsList []string, windows []string) []string {
	cols := make([]string, 0, 2+len(vsList)*(1+len(windows)))
	cols = append(cols, "id", "name")
	for _, vs := range vsList {
		cols = append(cols, fmt.Sprintf("price_%s", vs))
		for _, w := range windows {
			cols = append(cols, fmt.Sprintf("chg_%s_pct_%s", w, vs))
		}
	}
	return cols
}

// Values lines up with Columns; currencies the asset was not quoted in are left blank.
func (m Merged) Values(vsList []string, windows []string) []string {
	vals := make([]string, 0, 2+len(vsList)*(1+len(windows)))
	vals = append(vals, m.ID, m.Name)
	for _, vs := range vsList {
		q, ok := m.Quotes[vs]
		vals = append(vals, provider.FormatDecimal(q.Price))
		for _, w := range windows {
			if !ok {
				vals = append(vals, "")
				continue
			}
			vals = append(vals, provider.FormatDecimal(q.Windows[w]))
		}
	}
	return vals
}

// Currencies returns the vs codes of batches in order, without duplicates.
func Currencies(batches []provider.MarketBatch) []string {
	seen := make(map[string]struct{}, len(batches))
	out := make([]string, 0, len(batches))
	for _, b := range batches {
		if _, ok := seen[b.VS]; ok {
			continue
		}
		seen[b.VS] = struct{}{}
		out = append(out, b.VS)
	}
	return out
}
