package pipeline

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"fundcoinsnap/internal/config"
	"fundcoinsnap/internal/httpx"
	"fundcoinsnap/internal/output"
	"fundcoinsnap/internal/provider"
	"fundcoinsnap/internal/provider/coingecko"
	"fundcoinsnap/internal/provider/coingeckoadapter"
	"fundcoinsnap/internal/provider/doctorxiong"
	"fundcoinsnap/internal/provider/fundchain"
	"fundcoinsnap/internal/provider/fundgz"
)

// FromConfig wires providers and output locations from cfg.
func FromConfig(cfg config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}

	fundHTTP := httpx.New(time.Duration(cfg.HTTP.FundTimeoutSec) * time.Second)
	fundHTTP.UserAgent = cfg.HTTP.UserAgent

	sources := make([]provider.FundSource, 0, len(cfg.FundProviders))
	for _, name := range cfg.FundProviders {
		switch name {
		case config.ProviderDoctorXiong:
			sources = append(sources, doctorxiong.New(doctorxiong.Config{
				URL: cfg.Providers.DoctorXiong.Endpoint,
			}, fundHTTP, log))
		case config.ProviderFundgz:
			sources = append(sources, fundgz.New(fundgz.Config{
				URL:     cfg.Providers.Fundgz.Endpoint,
				Referer: cfg.Providers.Fundgz.Referer,
			}, fundHTTP, log))
		}
	}

	marketHTTP := httpx.New(time.Duration(cfg.HTTP.MarketTimeoutSec) * time.Second)
	opts := []coingecko.ClientOption{coingecko.WithHTTPClient(marketHTTP.HTTP)}
	if cfg.Providers.CoinGecko.BaseURL != "" {
		opts = append(opts, coingecko.WithBaseURL(cfg.Providers.CoinGecko.BaseURL))
	}
	if cfg.HTTP.UserAgent != "" {
		opts = append(opts, coingecko.WithHeader(http.Header{"User-Agent": {cfg.HTTP.UserAgent}}))
	}
	markets := coingeckoadapter.New(coingeckoadapter.Config{
		Windows: cfg.Providers.CoinGecko.Windows,
	}, coingecko.NewClient(opts...), log)

	return &Pipeline{
		Funds:     fundchain.New(log, sources...),
		Markets:   markets,
		FundCodes: cfg.Funds,
		Coins:     cfg.Coins,
		VS:        cfg.VS,
		Windows:   cfg.Providers.CoinGecko.Windows,
		Paths: output.Paths{
			Dir:     cfg.Output.Dir,
			Latest:  cfg.Output.LatestFile,
			History: cfg.Output.HistoryFile,
			Wide:    cfg.Output.WideFile,
		},
		Lang: output.ParseLang(cfg.HeadersLang),
		Log:  log,
	}
}
