// Package promo holds the promo code table shared by pricing and by the
// client-facing code listing. Codes map to a whole percentage discount.
package promo

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed promo_codes.yaml
var defaultTable []byte

type Table struct {
	Version string         `yaml:"version" json:"version"`
	Codes   map[string]int `yaml:"codes" json:"codes"`
}

type Code struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}

func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("promo: built-in table is invalid: %v", err))
	}
	return t
}

// Load reads a table from path, or returns the built-in table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read promo codes: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse promo codes: %w", err)
	}
	if t.Version == "" {
		return nil, fmt.Errorf("promo table has no version")
	}
	for code, pct := range t.Codes {
		if code == "" {
			return nil, fmt.Errorf("promo table has an empty code")
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("promo code %s: percent %d out of range 0..100", code, pct)
		}
	}
	if t.Codes == nil {
		t.Codes = map[string]int{}
	}
	return &t, nil
}

// Percent returns the discount percentage for code. Unknown codes give 0.
func (t *Table) Percent(code string) int {
	if t == nil || code == "" {
		return 0
	}
	return t.Codes[code]
}

// Discount is pct% of amount.
func (t *Table) Discount(code string, amount decimal.Decimal) decimal.Decimal {
	pct := t.Percent(code)
	if pct == 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100))
}

// List returns the codes sorted by name.
func (t *Table) List() []Code {
	codes := make([]Code, 0, len(t.Codes))
	for code, pct := range t.Codes {
		codes = append(codes, Code{Code: code, Percent: pct})
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes
}
