package cleaner

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"adapter/internal/table"
)

// Strategy selects the replacement computation per column during
// imputation. Only one strategy is active at a time.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyZero   Strategy = "zero"
)

var (
	// numericPattern matches an optional leading minus, optional integer
	// part, optional fractional part, at least one digit total.
	numericPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)
	// datePattern recognizes date-like cells, optionally with a time
	// component. Searched, not anchored, matching the original format
	// sniffing.
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}:\d{2})?`)
)

// numericColumnThreshold is the share of non-missing values that must
// parse as numbers for a column to be eligible for mean/median imputation.
const numericColumnThreshold = 0.8

// Config controls the cleaning passes.
type Config struct {
	Strategy  Strategy
	Precision int
}

// DefaultConfig returns the default cleaning configuration: mean
// imputation with two decimal places.
func DefaultConfig() Config {
	return Config{Strategy: StrategyMean, Precision: 2}
}

// Cleaner mutates tables in place. It holds no state across calls beyond
// its configuration.
type Cleaner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Cleaner. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, cfg Config) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{cfg: cfg, logger: logger.With(slog.String("component", "cleaner"))}
}

// Stats summarizes what a cleaning run changed.
type Stats struct {
	DuplicatesRemoved int
	CellsImputed      int
	CellsNormalized   int
}

// Clean runs the three passes in fixed order: RemoveDuplicates,
// ImputeMissing, NormalizeFormats.
func (c *Cleaner) Clean(t *table.Table) {
	c.CleanWithStats(t)
}

// CleanWithStats runs Clean and reports per-pass change counts.
func (c *Cleaner) CleanWithStats(t *table.Table) Stats {
	if t == nil {
		return Stats{}
	}
	stats := Stats{
		DuplicatesRemoved: c.RemoveDuplicates(t),
		CellsImputed:      c.ImputeMissing(t),
		CellsNormalized:   c.NormalizeFormats(t),
	}
	c.logger.Info("cleaning complete",
		slog.Int("duplicates_removed", stats.DuplicatesRemoved),
		slog.Int("cells_imputed", stats.CellsImputed),
		slog.Int("cells_normalized", stats.CellsNormalized),
		slog.Int("rows", t.RowCount()))
	return stats
}

// RemoveDuplicates drops every data row whose full field sequence equals,
// value for value, an earlier retained row. The header is always kept and
// the relative order of first occurrences is preserved. Comparison is
// exact string equality with no normalization. Returns the number of rows
// removed.
func (c *Cleaner) RemoveDuplicates(t *table.Table) int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(t.Rows))
	kept := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}

// rowKey builds an unambiguous equality key for a row. Each field is
// quoted so field boundaries cannot collide with field content.
func rowKey(row []string) string {
	return fmt.Sprintf("%q", row)
}

// ImputeMissing replaces missing cells column by column. A column with no
// non-missing values is skipped entirely; otherwise every missing cell in
// the column receives the same replacement computed by the active
// strategy. Columns where fewer than 80% of the non-missing values look
// numeric fall back to the literal "0" under mean/median. Returns the
// number of cells replaced.
func (c *Cleaner) ImputeMissing(t *table.Table) int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	imputed := 0
	for col := 0; col < len(t.Header); col++ {
		var present []string
		var missingRows []int
		for i, row := range t.Rows {
			if col >= len(row) {
				// Short row: the trailing field is absent, not imputable.
				continue
			}
			if table.IsMissing(row[col]) {
				missingRows = append(missingRows, i)
			} else {
				present = append(present, row[col])
			}
		}
		if len(missingRows) == 0 || len(present) == 0 {
			continue
		}
		replacement := c.replacementFor(present)
		for _, i := range missingRows {
			t.Rows[i][col] = replacement
			imputed++
		}
		c.logger.Debug("imputed column",
			slog.String("column", t.Header[col]),
			slog.Int("cells", len(missingRows)),
			slog.String("replacement", replacement))
	}
	return imputed
}

// replacementFor computes the per-column replacement scalar for the active
// strategy. Non-numeric columns and unknown strategies yield "0".
func (c *Cleaner) replacementFor(values []string) string {
	switch c.cfg.Strategy {
	case StrategyMean:
		if isNumericColumn(values) {
			return c.mean(values)
		}
	case StrategyMedian:
		if isNumericColumn(values) {
			return c.median(values)
		}
	case StrategyZero:
		return "0"
	}
	return "0"
}

// NormalizeFormats reformats every numeric-looking cell to fixed-point
// with the configured precision. Cells that fail to parse are left
// untouched. Date-like cells pass through the date hook, which is
// currently an identity transformation. Returns the number of cells whose
// value changed.
func (c *Cleaner) NormalizeFormats(t *table.Table) int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	normalized := 0
	for _, row := range t.Rows {
		for col := range row {
			value := row[col]
			switch {
			case numericPattern.MatchString(value):
				if formatted, ok := c.normalizeNumeric(value); ok && formatted != value {
					row[col] = formatted
					normalized++
				}
			case datePattern.MatchString(value):
				row[col] = normalizeDate(value)
			}
		}
	}
	return normalized
}

// normalizeNumeric reformats a numeric string to fixed precision. The
// second return is false when the value does not parse, in which case the
// caller must leave the cell as-is.
func (c *Cleaner) normalizeNumeric(value string) (string, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value, false
	}
	return strconv.FormatFloat(f, 'f', c.cfg.Precision, 64), true
}

// normalizeDate is the date reformatting hook. It is deliberately an
// identity transformation: the format sniffing exists but no reformatting
// logic is wired behind it yet.
func normalizeDate(value string) string {
	return value
}

// isNumericColumn reports whether enough of the values parse as numbers
// for statistical imputation to make sense.
func isNumericColumn(values []string) bool {
	if len(values) == 0 {
		return false
	}
	numeric := 0
	for _, v := range values {
		if numericPattern.MatchString(v) {
			numeric++
		}
	}
	return float64(numeric)/float64(len(values)) >= numericColumnThreshold
}

// mean returns the arithmetic mean of the parseable numeric values,
// formatted to the configured precision. Values that do not look numeric
// are ignored, not zero-filled. Returns "0" when nothing parses.
func (c *Cleaner) mean(values []string) string {
	sum := 0.0
	count := 0
	for _, v := range values {
		if !numericPattern.MatchString(v) {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += f
		count++
	}
	if count == 0 {
		return "0"
	}
	return strconv.FormatFloat(sum/float64(count), 'f', c.cfg.Precision, 64)
}

// median returns the standard median (average of the two middle values
// for even counts) of the parseable numeric values, formatted to the
// configured precision. Returns "0" when nothing parses.
func (c *Cleaner) median(values []string) string {
	var nums []float64
	for _, v := range values {
		if !numericPattern.MatchString(v) {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		nums = append(nums, f)
	}
	if len(nums) == 0 {
		return "0"
	}
	sort.Float64s(nums)
	var m float64
	if len(nums)%2 == 0 {
		m = (nums[len(nums)/2-1] + nums[len(nums)/2]) / 2
	} else {
		m = nums[len(nums)/2]
	}
	return strconv.FormatFloat(m, 'f', c.cfg.Precision, 64)
}
