package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fund provider names accepted in fund_providers.
const (
	ProviderDoctorXiong = "doctorxiong"
	ProviderFundgz      = "fundgz"
)

type Output struct {
	Dir         string `json:"dir" yaml:"dir"`
	LatestFile  string `json:"latest_file" yaml:"latest_file"`
	HistoryFile string `json:"history_file" yaml:"history_file"`
	// WideFile, when set, also writes one row per asset with a column group per vs.
	WideFile string `json:"wide_file" yaml:"wide_file"`
}

type HTTP struct {
	FundTimeoutSec   int    `json:"fund_timeout_sec" yaml:"fund_timeout_sec"`
	MarketTimeoutSec int    `json:"market_timeout_sec" yaml:"market_timeout_sec"`
	UserAgent        string `json:"user_agent" yaml:"user_agent"`
}

type DoctorXiong struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

type Fundgz struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Referer  string `json:"referer" yaml:"referer"`
}

type CoinGecko struct {
	BaseURL string   `json:"base_url" yaml:"base_url"`
	Windows []string `json:"windows" yaml:"windows"`
}

type Providers struct {
	DoctorXiong DoctorXiong `json:"doctorxiong" yaml:"doctorxiong"`
	Fundgz      Fundgz      `json:"fundgz" yaml:"fundgz"`
	CoinGecko   CoinGecko   `json:"coingecko" yaml:"coingecko"`
}

type Config struct {
	Funds       []string `json:"funds" yaml:"funds"`
	Coins       []string `json:"coins" yaml:"coins"`
	VS          []string `json:"vs" yaml:"vs"`
	HeadersLang string   `json:"headers_lang" yaml:"headers_lang"`
	// FundProviders is the order fund sources are tried in.
	FundProviders []string  `json:"fund_providers" yaml:"fund_providers"`
	Output        Output    `json:"output" yaml:"output"`
	HTTP          HTTP      `json:"http" yaml:"http"`
	Providers     Providers `json:"providers" yaml:"providers"`
}

// DefaultPath is where the job looks for its document when no path is given.
const DefaultPath = "config/assets.json"

func Default() Config {
	return Config{
		Funds:         []string{},
		Coins:         []string{},
		VS:            []string{"usd"},
		HeadersLang:   "en",
		FundProviders: []string{ProviderDoctorXiong, ProviderFundgz},
		Output: Output{
			Dir:         "data",
			LatestFile:  "agg_latest.csv",
			HistoryFile: "history.csv",
		},
		HTTP: HTTP{FundTimeoutSec: 8, MarketTimeoutSec: 20, UserAgent: "Mozilla/5.0"},
		Providers: Providers{
			DoctorXiong: DoctorXiong{Endpoint: "https://api.doctorxiong.club/v1/fund"},
			Fundgz: Fundgz{
				Endpoint: "https://fundgz.1234567.com.cn/js",
				Referer:  "https://fund.eastmoney.com",
			},
			CoinGecko: CoinGecko{
				BaseURL: "https://api.coingecko.com/api/v3",
				Windows: []string{"1h", "24h", "7d", "30d"},
			},
		},
	}
}

// Load reads the document at path over the defaults. Unlike a service config
// the document is mandatory: a missing, unreadable or malformed file is an error.
// YAML is used for .yaml/.yml files, JSON otherwise. Environment variables
// override select fields afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the job cannot run with.
func (c Config) Validate() error {
	for _, p := range c.FundProviders {
		switch p {
		case ProviderDoctorXiong, ProviderFundgz:
		default:
			return errors.Errorf("unknown fund provider %q", p)
		}
	}
	if c.Output.LatestFile == "" || c.Output.HistoryFile == "" {
		return errors.New("output latest_file and history_file must be set")
	}
	for _, vs := range c.VS {
		if strings.TrimSpace(vs) == "" {
			return errors.New("vs entries must not be empty")
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FUNDS"); v != "" {
		cfg.Funds = splitCSV(v)
	}
	if v := os.Getenv("COINS"); v != "" {
		cfg.Coins = splitCSV(v)
	}
	if v := os.Getenv("VS"); v != "" {
		cfg.VS = splitCSV(v)
	}
	if v := os.Getenv("HEADERS_LANG"); v != "" {
		cfg.HeadersLang = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("FUND_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.HTTP.FundTimeoutSec = x
		}
	}
	if v := os.Getenv("MARKET_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.HTTP.MarketTimeoutSec = x
		}
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
