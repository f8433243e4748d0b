package fundchain

import (
	"context"

	"go.uber.org/zap"

	"fundcoinsnap/internal/provider"
)

// Chain tries each source in order per fund code and keeps the first hit.
// Codes no source can serve are dropped without error.
type Chain struct {
	Sources []provider.FundSource
	Log     *zap.Logger
}

func New(log *zap.Logger, sources ...provider.FundSource) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{Sources: sources, Log: log}
}

// FetchOne returns the first usable record for code.
func (c *Chain) FetchOne(ctx context.Context, code string) (provider.FundRecord, bool) {
	for _, s := range c.Sources {
		if rec, ok := s.FetchFund(ctx, code); ok {
			return rec, true
		}
		c.logger().Debug("fund source had no result", zap.String("source", s.Name()), zap.String("code", code))
	}
	return provider.FundRecord{}, false
}

// Fetch resolves codes in order; the result preserves config order.
func (c *Chain) Fetch(ctx context.Context, codes []string) []provider.FundRecord {
	out := make([]provider.FundRecord, 0, len(codes))
	for _, code := range codes {
		rec, ok := c.FetchOne(ctx, code)
		if !ok {
			c.logger().Info("fund skipped, no source returned data", zap.String("code", code))
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (c *Chain) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
