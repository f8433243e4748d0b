package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fundcoinsnap/internal/config"
)

// upstream fakes all three providers behind one server.
type upstream struct {
	srv          *httptest.Server
	fundgzCalls  map[string]*atomic.Int32
	marketStatus int
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{
		fundgzCalls:  map[string]*atomic.Int32{"000001": {}, "000002": {}, "000003": {}},
		marketStatus: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/fund", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("code") {
		case "000001":
			fmt.Fprint(w, `{"code":200,"data":{"name":"X Fund","dwjz":"1.234","gsz":"1.240","gszzl":"0.5","jzrq":"2024-01-01"}}`)
		case "000002":
			fmt.Fprint(w, `{"code":200,"data":{}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/js/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/js/"), ".js")
		if c, ok := u.fundgzCalls[code]; ok {
			c.Add(1)
		}
		switch code {
		case "000002":
			fmt.Fprint(w, `jsonpgz({"fundcode":"000002","name":"Y Fund","jzrq":"2024-01-01","dwjz":"2.000","gsz":"","gszzl":"-0.3"});`)
		default:
			fmt.Fprint(w, `jsonpgz();`)
		}
	})
	mux.HandleFunc("/api/v3/coins/markets", func(w http.ResponseWriter, r *http.Request) {
		if u.marketStatus != http.StatusOK {
			w.WriteHeader(u.marketStatus)
			return
		}
		prices := map[string]string{"usd": "67000.5", "cny": "480000"}
		fmt.Fprintf(w, `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":%s,"price_change_percentage_24h":1.5,"price_change_percentage_7d_in_currency":3.25}]`,
			prices[r.URL.Query().Get("vs_currency")])
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) config(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Funds = []string{"000001", "000002", "000003"}
	cfg.Coins = []string{"bitcoin"}
	cfg.VS = []string{"usd", "cny"}
	cfg.Output.Dir = dir
	cfg.HTTP.FundTimeoutSec = 2
	cfg.HTTP.MarketTimeoutSec = 2
	cfg.Providers.DoctorXiong.Endpoint = u.srv.URL + "/v1/fund"
	cfg.Providers.Fundgz.Endpoint = u.srv.URL + "/js"
	cfg.Providers.CoinGecko.BaseURL = u.srv.URL + "/api/v3"
	require.NoError(t, cfg.Validate())
	return cfg
}

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(b), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	return records
}

var fixedNow = func() time.Time { return time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC) }

func TestRun_SnapshotAndHistory(t *testing.T) {
	u := newUpstream(t)
	dir := filepath.Join(t.TempDir(), "data")
	p := FromConfig(u.config(t, dir), nil)
	p.Now = fixedNow

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.FundRows)
	require.Equal(t, 2, res.MarketRows)

	ts := "2024-01-02 08:00:00"
	want := [][]string{
		{"kind", "id", "name", "nav_date_or_ts", "nav_or_price", "chg_24h_pct", "vs", "ts_utc"},
		{"fund", "000001", "X Fund", "2024-01-01", "1.240", "0.5", "", ts},
		{"fund", "000002", "Y Fund", "2024-01-01", "2.000", "-0.3", "", ts},
		{"crypto", "bitcoin", "Bitcoin", ts, "67000.5", "1.5", "usd", ts},
		{"crypto", "bitcoin", "Bitcoin", ts, "480000", "1.5", "cny", ts},
	}
	require.Equal(t, want, readRecords(t, res.LatestPath))
	require.Equal(t, want, readRecords(t, res.HistoryPath))

	// primary answered 000001, so the fallback was never asked
	require.Equal(t, int32(0), u.fundgzCalls["000001"].Load())
	require.Equal(t, int32(1), u.fundgzCalls["000002"].Load())
	require.Equal(t, int32(1), u.fundgzCalls["000003"].Load())
	require.Empty(t, res.WidePath)
}

func TestRun_TwiceReplacesSnapshotAndDoublesHistory(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	p := FromConfig(u.config(t, dir), nil)
	p.Now = fixedNow

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.Rows(), second.Rows())

	latest := readRecords(t, second.LatestPath)
	require.Len(t, latest, 1+first.Rows())

	history := readRecords(t, second.HistoryPath)
	require.Len(t, history, 1+2*first.Rows())
	headers := 0
	for _, r := range history {
		if r[0] == "kind" {
			headers++
		}
	}
	require.Equal(t, 1, headers)
}

func TestRun_MarketFailureAbortsBeforeWriting(t *testing.T) {
	u := newUpstream(t)
	u.marketStatus = http.StatusTooManyRequests
	dir := t.TempDir()
	p := FromConfig(u.config(t, dir), nil)

	_, err := p.Run(context.Background())
	require.ErrorContains(t, err, "rate limited")

	_, statErr := os.Stat(filepath.Join(dir, "agg_latest.csv"))
	require.ErrorIs(t, statErr, os.ErrNotExist)
	_, statErr = os.Stat(filepath.Join(dir, "history.csv"))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRun_ChineseHeadersAndWideSnapshot(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	cfg := u.config(t, dir)
	cfg.HeadersLang = "zh_CN"
	cfg.Output.WideFile = "agg_wide.csv"
	p := FromConfig(cfg, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	latest := readRecords(t, res.LatestPath)
	require.Equal(t, "类型", latest[0][0])

	wide := readRecords(t, res.WidePath)
	require.Equal(t, []string{
		"id", "name",
		"price_usd", "chg_1h_pct_usd", "chg_24h_pct_usd", "chg_7d_pct_usd", "chg_30d_pct_usd",
		"price_cny", "chg_1h_pct_cny", "chg_24h_pct_cny", "chg_7d_pct_cny", "chg_30d_pct_cny",
	}, wide[0])
	require.Equal(t, []string{
		"bitcoin", "Bitcoin",
		"67000.5", "", "", "3.25", "",
		"480000", "", "", "3.25", "",
	}, wide[1])
}

func TestRun_FallbackOrderIsConfigurable(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(t, t.TempDir())
	cfg.Funds = []string{"000001"}
	cfg.Coins = nil
	cfg.FundProviders = []string{config.ProviderFundgz, config.ProviderDoctorXiong}
	p := FromConfig(cfg, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), u.fundgzCalls["000001"].Load())
	require.Equal(t, 1, res.FundRows)
	require.Equal(t, 0, res.MarketRows)
}
