package fundgz

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"fundcoinsnap/internal/httpx"
	"fundcoinsnap/internal/provider"
)

// Config controls the fundgz (Eastmoney estimate) provider.
type Config struct {
	Name    string
	URL     string // base URL; the fund is fetched from <URL>/<code>.js
	Referer string
	Headers map[string]string
}

// Provider fetches intraday fund estimates served as a JSONP script.
type Provider struct {
	cfg    Config
	client *httpx.Client
	log    *zap.Logger
}

var Fields = provider.FieldMap{
	provider.FieldName:    {"name"},
	provider.FieldNavDate: {"jzrq"},
	provider.FieldNav:     {"dwjz"},
	provider.FieldEstNav:  {"gsz"},
	provider.FieldEstChg:  {"gszzl"},
}

const (
	wrapPrefix = "jsonpgz("
	wrapSuffix = ");"
)

// ErrNotWrapped is returned by Unwrap when the payload is not a jsonpgz(...) call.
var ErrNotWrapped = errors.New("fundgz: payload is not jsonpgz-wrapped")

func New(cfg Config, hc *httpx.Client, log *zap.Logger) *Provider {
	if cfg.Name == "" {
		cfg.Name = "fundgz"
	}
	if cfg.URL == "" {
		cfg.URL = "https://fundgz.1234567.com.cn/js"
	}
	if cfg.Referer == "" {
		cfg.Referer = "https://fund.eastmoney.com"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, client: hc, log: log.With(zap.String("provider", cfg.Name))}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) FetchFund(ctx context.Context, code string) (provider.FundRecord, bool) {
	u := fmt.Sprintf("%s/%s.js", strings.TrimRight(p.cfg.URL, "/"), code)
	headers := map[string]string{"Referer": p.cfg.Referer}
	for k, v := range p.cfg.Headers {
		headers[k] = v
	}

	resp, err := p.client.Get(ctx, u, headers)
	if err != nil {
		p.log.Debug("request failed", zap.String("code", code), zap.Error(err))
		return provider.FundRecord{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Debug("bad status", zap.String("code", code), zap.Int("status", resp.StatusCode))
		return provider.FundRecord{}, false
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return provider.FundRecord{}, false
	}

	body, err := Unwrap(string(b))
	if err != nil {
		p.log.Debug("unwrap failed", zap.String("code", code), zap.Error(err))
		return provider.FundRecord{}, false
	}
	if body == "" || body == "{}" {
		return provider.FundRecord{}, false
	}
	data, err := provider.DecodeObject([]byte(body))
	if err != nil || len(data) == 0 {
		p.log.Debug("decode failed", zap.String("code", code), zap.Error(err))
		return provider.FundRecord{}, false
	}
	return Fields.Fund(code, p.cfg.Name, data), true
}

// Unwrap strips the jsonpgz( ... ); envelope and returns the trimmed interior.
func Unwrap(payload string) (string, error) {
	t := strings.TrimSpace(payload)
	if !strings.HasPrefix(t, wrapPrefix) || !strings.HasSuffix(t, wrapSuffix) || len(t) < len(wrapPrefix)+len(wrapSuffix) {
		return "", ErrNotWrapped
	}
	return strings.TrimSpace(t[len(wrapPrefix) : len(t)-len(wrapSuffix)]), nil
}

var _ provider.FundSource = (*Provider)(nil)
