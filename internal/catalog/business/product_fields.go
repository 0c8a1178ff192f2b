package business

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmacatalog_api/internal/catalog/business/converters"
	"pharmacatalog_api/internal/catalog/models"
)

// Keys a client may echo back from a previous response; the store owns them.
var readOnlyFields = map[string]bool{"id": true, "created_at": true, "updated_at": true}

// applyFields decodes every known key of raw into p and returns the touched
// fields in a stable order. Bad values and unknown keys are collected into
// verr.
func applyFields(p *models.Product, raw map[string]json.RawMessage, verr *models.ValidationError) []models.Field {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []models.Field
	for _, key := range keys {
		if readOnlyFields[key] {
			continue
		}
		f, ok := p.FieldByJSON(key)
		if !ok {
			verr.Add(locationBody, key, "Unknown field")
			continue
		}
		if !decodeField(f, raw[key]) {
			verr.Add(locationBody, key, invalidValue)
			continue
		}
		changes = append(changes, f)
	}
	return changes
}

func decodeField(f models.Field, value json.RawMessage) bool {
	isNull := string(value) == "null"
	switch ptr := f.Ptr.(type) {
	case *string:
		if isNull {
			*ptr = ""
			return true
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			*ptr = s
			return true
		}
		var n json.Number
		if err := json.Unmarshal(value, &n); err == nil {
			*ptr = n.String()
			return true
		}
		return false
	case **time.Time:
		if isNull {
			*ptr = nil
			return true
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return false
		}
		t := parseAPIDate(s)
		if t == nil {
			return false
		}
		*ptr = t
		return true
	case *decimal.Decimal:
		if isNull {
			*ptr = decimal.Zero
			return true
		}
		var d decimal.Decimal
		if err := d.UnmarshalJSON(value); err == nil {
			*ptr = d
			return true
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return false
		}
		d, err := converters.ParseLocale(s)
		if err != nil {
			return false
		}
		*ptr = d
		return true
	}
	return false
}

// parseAPIDate accepts RFC 3339, a bare ISO date or the upstream DD/MM/YYYY.
func parseAPIDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return converters.ParseDate(s)
}
