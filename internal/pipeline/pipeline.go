package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"fundcoinsnap/internal/aggregate"
	"fundcoinsnap/internal/output"
	"fundcoinsnap/internal/provider"
)

// FundFetcher resolves fund codes; codes without data are dropped.
type FundFetcher interface {
	Fetch(ctx context.Context, codes []string) []provider.FundRecord
}

// MarketFetcher returns one batch per reference currency or fails the run.
type MarketFetcher interface {
	Fetch(ctx context.Context, coins []string, vsList []string) ([]provider.MarketBatch, error)
}

// Pipeline runs one fetch -> write pass.
type Pipeline struct {
	Funds   FundFetcher
	Markets MarketFetcher

	FundCodes []string
	Coins     []string
	VS        []string
	Windows   []string // columns of the wide snapshot

	Paths output.Paths
	Lang  output.Lang

	Log *zap.Logger
	Now func() time.Time
}

// Result summarizes a completed run.
type Result struct {
	FundRows    int
	MarketRows  int
	LatestPath  string
	HistoryPath string
	WidePath    string
}

// Rows is the number of data rows written to each of the snapshot and history.
func (r Result) Rows() int { return r.FundRows + r.MarketRows }

// Run fetches everything first; nothing is written when the market fetch fails.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	var funds []provider.FundRecord
	if p.Funds != nil {
		funds = p.Funds.Fetch(ctx, p.FundCodes)
	}
	log.Info("funds fetched", zap.Int("requested", len(p.FundCodes)), zap.Int("resolved", len(funds)))

	var batches []provider.MarketBatch
	if p.Markets != nil {
		var err error
		batches, err = p.Markets.Fetch(ctx, p.Coins, p.VS)
		if err != nil {
			return Result{}, errors.Wrap(err, "fetch markets")
		}
	}

	rows := output.Rows(funds, batches, now())
	res := Result{
		FundRows:    len(funds),
		MarketRows:  len(rows) - len(funds),
		LatestPath:  p.Paths.LatestPath(),
		HistoryPath: p.Paths.HistoryPath(),
	}

	if err := output.WriteSnapshot(p.Paths, p.Lang, rows); err != nil {
		return res, errors.Wrap(err, "write snapshot")
	}
	log.Info("snapshot written", zap.String("path", res.LatestPath), zap.Int("rows", len(rows)))

	if err := output.AppendHistory(p.Paths, p.Lang, rows); err != nil {
		return res, errors.Wrap(err, "append history")
	}
	log.Info("history appended", zap.String("path", res.HistoryPath), zap.Int("rows", len(rows)))

	if p.Paths.Wide != "" {
		vsList := aggregate.Currencies(batches)
		windows := p.Windows
		if len(windows) == 0 {
			windows = provider.DefaultWindows
		}
		merged := aggregate.MergeByCurrency(batches)
		wide := make([][]string, 0, len(merged))
		for _, m := range merged {
			wide = append(wide, m.Values(vsList, windows))
		}
		if err := output.WriteWide(p.Paths, aggregate.Columns(vsList, windows), wide); err != nil {
			return res, errors.Wrap(err, "write wide snapshot")
		}
		res.WidePath = p.Paths.WidePath()
		log.Info("wide snapshot written", zap.String("path", res.WidePath), zap.Int("assets", len(merged)))
	}
	return res, nil
}
