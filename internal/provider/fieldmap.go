package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Logical fund fields looked up through a FieldMap.
const (
	FieldName    = "name"
	FieldNavDate = "nav_date"
	FieldNav     = "nav"
	FieldEstNav  = "est_nav"
	FieldEstChg  = "est_chg_24h_pct"
)

// FieldMap lists, per logical field, the provider keys that may carry it.
// Keys are tried in order and the first non-null, non-empty value wins.
type FieldMap map[string][]string

// Pick returns the textual value of field in data, or "" when no key is set.
func (m FieldMap) Pick(data map[string]any, field string) string {
	for _, key := range m[field] {
		if s := stringify(data[key]); s != "" {
			return s
		}
	}
	return ""
}

// Fund builds a FundRecord for code from a decoded provider payload.
func (m FieldMap) Fund(code, source string, data map[string]any) FundRecord {
	return FundRecord{
		Kind:         KindFund,
		ID:           code,
		Name:         m.Pick(data, FieldName),
		NavDate:      m.Pick(data, FieldNavDate),
		Nav:          m.Pick(data, FieldNav),
		EstNav:       m.Pick(data, FieldEstNav),
		EstChangePct: m.Pick(data, FieldEstChg),
		Source:       source,
	}
}

// DecodeObject decodes a JSON object keeping numbers as json.Number.
func DecodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
