package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	KindFund   = "fund"
	KindCrypto = "crypto"
)

// FundRecord is the normalized shape returned by all fund sources.
// Values keep the provider's textual form so "1.240" is written back as "1.240".
type FundRecord struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	NavDate      string `json:"nav_date,omitempty"`
	Nav          string `json:"nav,omitempty"`
	EstNav       string `json:"est_nav,omitempty"`
	EstChangePct string `json:"est_chg_24h_pct,omitempty"`
	Source       string `json:"source"`
}

// Value returns the estimated NAV when published, else the official NAV.
func (r FundRecord) Value() string {
	if r.EstNav != "" {
		return r.EstNav
	}
	return r.Nav
}

// FundSource fetches a single fund by code. ok is false when the source had
// nothing usable, whatever the cause.
//
//go:generate mockgen -package=fundchain_test -destination=fundchain/mock_fund_source_test.go -source=provider.go FundSource
type FundSource interface {
	Name() string
	FetchFund(ctx context.Context, code string) (rec FundRecord, ok bool)
}

// Change windows requested from the market provider.
const (
	Window1h  = "1h"
	Window24h = "24h"
	Window7d  = "7d"
	Window30d = "30d"
)

// DefaultWindows is the order windows are requested and written in.
var DefaultWindows = []string{Window1h, Window24h, Window7d, Window30d}

// MarketRecord is one asset quoted in one reference currency.
type MarketRecord struct {
	Kind         string                         `json:"kind"`
	ID           string                         `json:"id"`
	Symbol       string                         `json:"symbol,omitempty"`
	Name         string                         `json:"name"`
	VS           string                         `json:"vs"`
	Price        decimal.NullDecimal            `json:"price"`
	Change24hPct decimal.NullDecimal            `json:"chg_24h_pct"`
	Windows      map[string]decimal.NullDecimal `json:"windows,omitempty"`
	LastUpdated  string                         `json:"last_updated,omitempty"`
}

// MarketBatch holds every record fetched for one reference currency.
type MarketBatch struct {
	VS      string
	Records []MarketRecord
}

// FormatDecimal renders a nullable decimal, empty when null.
func FormatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
