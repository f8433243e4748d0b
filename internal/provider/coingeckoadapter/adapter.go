package coingeckoadapter

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fundcoinsnap/internal/provider"
	"fundcoinsnap/internal/provider/coingecko"
)

type Config struct {
	Name    string   // display name, default: CoinGecko
	Windows []string // change windows requested per call, e.g. ["1h","24h","7d","30d"]
}

// MarketsClient is the part of coingecko.Client the adapter needs.
type MarketsClient interface {
	GetCoinMarkets(ctx context.Context, vs string, ids []string, windows []string) ([]coingecko.CoinMarket, error)
}

// Adapter turns CoinGecko market rows into provider.MarketRecord batches.
type Adapter struct {
	cfg    Config
	client MarketsClient
	log    *zap.Logger
}

func New(cfg Config, client MarketsClient, log *zap.Logger) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "CoinGecko"
	}
	if len(cfg.Windows) == 0 {
		cfg.Windows = provider.DefaultWindows
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{cfg: cfg, client: client, log: log.With(zap.String("provider", cfg.Name))}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Fetch issues one request per reference currency, in order. Any failure
// aborts the whole fetch; there is no per-currency fallback.
func (a *Adapter) Fetch(ctx context.Context, coins []string, vsList []string) ([]provider.MarketBatch, error) {
	out := make([]provider.MarketBatch, 0, len(vsList))
	for _, vs := range vsList {
		if len(coins) == 0 {
			out = append(out, provider.MarketBatch{VS: vs})
			continue
		}
		markets, err := a.client.GetCoinMarkets(ctx, vs, coins, a.cfg.Windows)
		if err != nil {
			return nil, errors.Wrapf(err, "%s markets vs=%s", a.cfg.Name, vs)
		}
		a.log.Info("markets fetched", zap.String("vs", vs), zap.Int("assets", len(markets)))
		out = append(out, provider.MarketBatch{VS: vs, Records: a.records(vs, markets)})
	}
	return out, nil
}

func (a *Adapter) records(vs string, markets []coingecko.CoinMarket) []provider.MarketRecord {
	recs := make([]provider.MarketRecord, 0, len(markets))
	for _, m := range markets {
		windows := make(map[string]decimal.NullDecimal, len(a.cfg.Windows))
		for _, w := range a.cfg.Windows {
			windows[w] = m.InCurrency(w)
		}
		recs = append(recs, provider.MarketRecord{
			Kind:         provider.KindCrypto,
			ID:           m.ID,
			Symbol:       strings.ToLower(m.Symbol),
			Name:         m.Name,
			VS:           vs,
			Price:        m.CurrentPrice,
			Change24hPct: m.PriceChangePct24h,
			Windows:      windows,
			LastUpdated:  m.LastUpdated,
		})
	}
	return recs
}
