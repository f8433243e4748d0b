package output

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fundcoinsnap/internal/provider"
)

// TimeLayout is the UTC capture timestamp format written in every row.
const TimeLayout = "2006-01-02 15:04:05"

// bom makes spreadsheet tools detect UTF-8.
const bom = "\ufeff"

type Lang string

const (
	LangEN Lang = "en"
	LangZH Lang = "zh"
)

// ParseLang maps any value starting with "zh" (case-insensitive) to LangZH, else LangEN.
func ParseLang(s string) Lang {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "zh") {
		return LangZH
	}
	return LangEN
}

var (
	HeadersEN = []string{"kind", "id", "name", "nav_date_or_ts", "nav_or_price", "chg_24h_pct", "vs", "ts_utc"}
	HeadersZH = []string{"类型", "标的ID/代码", "名称", "净值日期/时间", "价格/净值", "24h涨跌幅(%)", "计价币种", "抓取时间(UTC)"}
)

// Headers returns a copy of the header row for lang.
func Headers(lang Lang) []string {
	if lang == LangZH {
		return append([]string(nil), HeadersZH...)
	}
	return append([]string(nil), HeadersEN...)
}

// Paths locates the output files. File names are joined onto Dir.
type Paths struct {
	Dir     string
	Latest  string
	History string
	Wide    string // optional
}

func (p Paths) LatestPath() string  { return filepath.Join(p.Dir, p.Latest) }
func (p Paths) HistoryPath() string { return filepath.Join(p.Dir, p.History) }
func (p Paths) WidePath() string    { return filepath.Join(p.Dir, p.Wide) }

// Rows flattens one run into output rows: funds first, then each
// (vs, asset) pair in batch order. now is rendered in UTC.
func Rows(funds []provider.FundRecord, batches []provider.MarketBatch, now time.Time) [][]string {
	ts := now.UTC().Format(TimeLayout)
	rows := make([][]string, 0, len(funds)+len(batches)*4)
	for _, f := range funds {
		rows = append(rows, []string{
			provider.KindFund, f.ID, f.Name,
			f.NavDate, f.Value(),
			f.EstChangePct, "", ts,
		})
	}
	for _, b := range batches {
		for _, r := range b.Records {
			rows = append(rows, []string{
				provider.KindCrypto, r.ID, r.Name,
				ts, provider.FormatDecimal(r.Price),
				provider.FormatDecimal(r.Change24hPct),
				b.VS, ts,
			})
		}
	}
	return rows
}

// WriteSnapshot replaces the latest file with header + rows.
func WriteSnapshot(paths Paths, lang Lang, rows [][]string) error {
	return writeTable(paths.LatestPath(), Headers(lang), rows)
}

// AppendHistory appends rows to the history file, writing the header only
// when the file is created by this call. Rows are never deduplicated.
func AppendHistory(paths Paths, lang Lang, rows [][]string) error {
	path := paths.HistoryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	_, err := os.Stat(path)
	created := errors.Is(err, os.ErrNotExist)
	if err != nil && !created {
		return errors.Wrapf(err, "stat %s", path)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var header []string
	if created {
		header = Headers(lang)
	}
	if err := encode(f, header, rows); err != nil {
		return errors.Wrapf(err, "append %s", path)
	}
	return f.Close()
}

// WriteWide replaces the wide snapshot file.
func WriteWide(paths Paths, header []string, rows [][]string) error {
	return writeTable(paths.WidePath(), header, rows)
}

func writeTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := encode(f, header, rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// encode writes BOM + header when a header is given, then rows.
func encode(w io.Writer, header []string, rows [][]string) error {
	if header != nil {
		if _, err := io.WriteString(w, bom); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
