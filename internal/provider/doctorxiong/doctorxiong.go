package doctorxiong

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"go.uber.org/zap"

	"fundcoinsnap/internal/httpx"
	"fundcoinsnap/internal/provider"
)

type Config struct {
	Name    string
	URL     string
	Headers map[string]string
}

// Provider queries the DoctorXiong fund API, which wraps the fund in a "data" object.
type Provider struct {
	cfg    Config
	client *httpx.Client
	log    *zap.Logger
}

// Fields maps logical fund fields onto the keys DoctorXiong may use for them.
var Fields = provider.FieldMap{
	provider.FieldName:    {"name", "fund_name"},
	provider.FieldNavDate: {"jzrq", "date"},
	provider.FieldNav:     {"dwjz", "net_value"},
	provider.FieldEstNav:  {"gsz", "estimate"},
	provider.FieldEstChg:  {"gszzl", "percent"},
}

func New(cfg Config, hc *httpx.Client, log *zap.Logger) *Provider {
	if cfg.Name == "" {
		cfg.Name = "DoctorXiong"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api.doctorxiong.club/v1/fund"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, client: hc, log: log.With(zap.String("provider", cfg.Name))}
}

func (p *Provider) Name() string { return p.cfg.Name }

// FetchFund never returns an error: any failure means no result.
func (p *Provider) FetchFund(ctx context.Context, code string) (provider.FundRecord, bool) {
	u, err := url.Parse(p.cfg.URL)
	if err != nil {
		p.log.Debug("bad endpoint", zap.Error(err))
		return provider.FundRecord{}, false
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()

	resp, err := p.client.Get(ctx, u.String(), p.cfg.Headers)
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
	var api apiResponse
	if err := json.Unmarshal(b, &api); err != nil {
		p.log.Debug("decode failed", zap.String("code", code), zap.Error(err))
		return provider.FundRecord{}, false
	}
	data, err := provider.DecodeObject(api.Data)
	if err != nil || len(data) == 0 {
		return provider.FundRecord{}, false
	}
	return Fields.Fund(code, p.cfg.Name, data), true
}

// apiResponse decodes only the envelope; code and message vary in type across deployments.
type apiResponse struct {
	Data json.RawMessage `json:"data"`
}

var _ provider.FundSource = (*Provider)(nil)
