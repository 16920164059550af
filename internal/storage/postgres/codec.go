package postgres

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Plot and price lists are stored as comma-joined TEXT columns. The codec
// here is the only place that knows the encoding.

func encodePlotList(numbers []string) string {
	return strings.Join(numbers, ",")
}

func decodePlotList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
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

func encodePriceList(prices []decimal.Decimal) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// decodePriceList tolerates legacy rows with junk entries: anything that
// does not parse decodes as zero.
func decodePriceList(s string) []decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			d = decimal.Zero
		}
		out = append(out, d)
	}
	return out
}
