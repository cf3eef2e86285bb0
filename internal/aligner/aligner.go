package aligner

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"time"

	apperrors "adapter/internal/errors"
	"adapter/internal/table"
)

// SolverMethod names the resampling algorithm. Only linear interpolation
// is implemented; the other variants are accepted for configuration
// compatibility and fall back to linear.
type SolverMethod string

const (
	SolverLinear      SolverMethod = "linear"
	SolverRungeKutta  SolverMethod = "runge-kutta"
	SolverHeun        SolverMethod = "heun"
	SolverCubicSpline SolverMethod = "cubic-spline"
)

// zeroSpanEpsilon guards the interpolation slope against division by zero.
const zeroSpanEpsilon = 1e-10

var (
	// numericTimePattern matches a non-negative number with an optional
	// decimal part, read directly as seconds since epoch.
	numericTimePattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	// dateTimePattern extracts an ISO-like date-time, T or space separated.
	dateTimePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2}):(\d{2})`)
	// datePattern extracts a bare date, read as local midnight.
	datePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// Config controls alignment.
type Config struct {
	// TargetInterval is the uniform grid spacing in time units (seconds
	// for date-parsed input).
	TargetInterval float64
	Solver         SolverMethod
}

// DefaultConfig returns a one-second grid with linear interpolation.
func DefaultConfig() Config {
	return Config{TargetInterval: 1.0, Solver: SolverLinear}
}

// Result reports what an alignment call did. Aligned is false when the
// call was a no-op (missing column, empty table, nothing parsed); callers
// use it to decide whether to re-derive headers and row counts.
type Result struct {
	Aligned       bool
	GridPoints    int
	SkippedValues int
	Diagnostics   []apperrors.Diagnostic
}

// Aligner resamples tables. It holds no state across calls beyond its
// configuration.
type Aligner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Aligner. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, cfg Config) *Aligner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aligner{cfg: cfg, logger: logger.With(slog.String("component", "aligner"))}
}

// timeSample is a parsed time value tied back to its source row.
type timeSample struct {
	rowIndex  int
	timestamp float64
	numeric   bool
}

// Align resamples the table onto a uniform time grid and replaces its
// rows with the resampled ones, carrying the header over unchanged.
// Degenerate inputs never raise: an unknown time column or a column with
// no parseable values leaves the table untouched, and a degenerate time
// range yields a header-only table.
//
// The dependent and independent column lists are validated against the
// header and logged but do not change the computation; every non-time
// column is resampled the same way.
func (a *Aligner) Align(t *table.Table, timeColumn string, dependent, independent []string) Result {
	res := Result{}
	if t == nil || len(t.Header) == 0 {
		res.Diagnostics = append(res.Diagnostics,
			apperrors.Diagnosticf(apperrors.ConditionNotFound, "no data to align"))
		a.logger.Warn("alignment skipped: no data")
		return res
	}

	timeIdx, ok := t.ColumnIndex(timeColumn)
	if !ok {
		res.Diagnostics = append(res.Diagnostics,
			apperrors.Diagnosticf(apperrors.ConditionNotFound, "time column %q not found", timeColumn))
		a.logger.Warn("alignment skipped: time column not found",
			slog.String("time_column", timeColumn))
		return res
	}

	a.checkRoles(t, dependent, "dependent")
	a.checkRoles(t, independent, "independent")

	samples, skipped := a.parseTimeColumn(t, timeIdx, &res)
	res.SkippedValues = skipped
	if len(samples) == 0 {
		res.Diagnostics = append(res.Diagnostics,
			apperrors.Diagnosticf(apperrors.ConditionEmptySeries, "no time values parsed in column %q", timeColumn))
		a.logger.Warn("alignment skipped: no parseable time values",
			slog.String("time_column", timeColumn))
		return res
	}

	start, end := samples[0].timestamp, samples[0].timestamp
	numericEcho := true
	for _, s := range samples {
		start = math.Min(start, s.timestamp)
		end = math.Max(end, s.timestamp)
		if !s.numeric {
			numericEcho = false
		}
	}

	grid := a.uniformGrid(start, end)
	if len(grid) == 0 {
		res.Diagnostics = append(res.Diagnostics,
			apperrors.Diagnosticf(apperrors.ConditionDegenerateGrid,
				"degenerate grid: start=%v end=%v interval=%v", start, end, a.cfg.TargetInterval))
		a.logger.Warn("degenerate time grid, result has header only",
			slog.Float64("start", start),
			slog.Float64("end", end),
			slog.Float64("interval", a.cfg.TargetInterval))
	}

	if a.cfg.Solver != SolverLinear && a.cfg.Solver != "" {
		a.logger.Warn("solver method not implemented, falling back to linear interpolation",
			slog.String("solver", string(a.cfg.Solver)))
	}

	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.timestamp
	}

	// Source values per column, restricted to rows whose time parsed.
	columns := make([][]string, len(t.Header))
	for col := range t.Header {
		if col == timeIdx {
			continue
		}
		values := make([]string, len(samples))
		for i, s := range samples {
			values[i] = t.Cell(s.rowIndex, col)
		}
		columns[col] = values
	}

	rows := make([][]string, 0, len(grid))
	for _, target := range grid {
		row := make([]string, len(t.Header))
		row[timeIdx] = a.formatTime(target, numericEcho)
		for col := range t.Header {
			if col == timeIdx {
				continue
			}
			row[col] = interpolate(times, columns[col], target)
		}
		rows = append(rows, row)
	}
	t.Rows = rows

	res.Aligned = true
	res.GridPoints = len(grid)
	a.logger.Info("time series alignment complete",
		slog.String("time_column", timeColumn),
		slog.Int("grid_points", len(grid)),
		slog.Int("skipped_values", skipped))
	return res
}

// checkRoles warns about role columns missing from the header. Roles are
// accepted for downstream consumers only; resampling is role-agnostic.
func (a *Aligner) checkRoles(t *table.Table, names []string, role string) {
	for _, name := range names {
		if _, ok := t.ColumnIndex(name); !ok {
			a.logger.Warn("role column not found in header",
				slog.String("role", role),
				slog.String("column", name))
		}
	}
}

// parseTimeColumn parses the time column of every data row, dropping and
// warning about values that match no rule. Dropped rows are excluded from
// the interpolation source data.
func (a *Aligner) parseTimeColumn(t *table.Table, timeIdx int, res *Result) ([]timeSample, int) {
	var samples []timeSample
	skipped := 0
	for i := range t.Rows {
		raw := t.Cell(i, timeIdx)
		ts, numeric, ok := parseTimeValue(raw)
		if !ok {
			skipped++
			res.Diagnostics = append(res.Diagnostics,
				apperrors.Diagnosticf(apperrors.ConditionUnparseable, "could not parse time value %q", raw))
			a.logger.Warn("could not parse time value",
				slog.String("value", raw),
				slog.Int("row", i))
			continue
		}
		samples = append(samples, timeSample{rowIndex: i, timestamp: ts, numeric: numeric})
	}
	return samples, skipped
}

// parseTimeValue tries the parsing rules in priority order: pure numeric
// seconds, ISO date-time as naive local calendar time, bare date as local
// midnight. The second return reports whether the numeric rule matched.
func parseTimeValue(value string) (ts float64, numeric bool, ok bool) {
	if numericTimePattern.MatchString(value) {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f, true, true
		}
	}
	if m := dateTimePattern.FindStringSubmatch(value); m != nil {
		return epochSeconds(m[1], m[2], m[3], m[4], m[5], m[6]), false, true
	}
	if m := datePattern.FindStringSubmatch(value); m != nil {
		return epochSeconds(m[1], m[2], m[3], "0", "0", "0"), false, true
	}
	return 0, false, false
}

// epochSeconds converts already-validated digit groups to epoch seconds in
// local time.
func epochSeconds(year, month, day, hour, minute, second string) float64 {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)
	s, _ := strconv.Atoi(second)
	return float64(time.Date(y, time.Month(mo), d, h, mi, s, 0, time.Local).Unix())
}

// uniformGrid builds the strictly increasing grid from start to end
// inclusive. Empty when end <= start or the interval is not positive; the
// last point may fall short of end when the range is not an integer
// multiple of the interval.
func (a *Aligner) uniformGrid(start, end float64) []float64 {
	var grid []float64
	if end <= start || a.cfg.TargetInterval <= 0 {
		return grid
	}
	for t := start; t <= end; t += a.cfg.TargetInterval {
		grid = append(grid, t)
	}
	return grid
}

// formatTime renders a grid timestamp back to the representation the
// source used: a plain number when every parsed value was numeric, an
// ISO-like UTC date-time otherwise. Decimal notation is required here;
// scientific notation would not survive a round trip through the numeric
// time pattern at epoch scale.
func (a *Aligner) formatTime(ts float64, numericEcho bool) string {
	if numericEcho {
		return strconv.FormatFloat(ts, 'f', -1, 64)
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02T15:04:05")
}

// interpolate resamples one column at the target time. The bracketing
// pair is found by a first-match scan in original order; when the target
// falls outside the observed range, the first and last samples bracket
// it. Both endpoints numeric: linear blend. Otherwise: nearest-neighbor
// raw copy, ties favoring the lower index.
func interpolate(times []float64, values []string, target float64) string {
	lower, upper := 0, len(times)-1
	for i := 0; i+1 < len(times); i++ {
		if times[i] <= target && target <= times[i+1] {
			lower, upper = i, i+1
			break
		}
	}

	y1, err1 := strconv.ParseFloat(values[lower], 64)
	y2, err2 := strconv.ParseFloat(values[upper], 64)
	if err1 == nil && err2 == nil {
		return strconv.FormatFloat(
			linearInterpolation(target, times[lower], y1, times[upper], y2), 'f', -1, 64)
	}

	if math.Abs(target-times[lower]) <= math.Abs(target-times[upper]) {
		return values[lower]
	}
	return values[upper]
}

// linearInterpolation blends between (x1,y1) and (x2,y2) at x, returning
// y1 when the x span is too small to divide by.
func linearInterpolation(x, x1, y1, x2, y2 float64) float64 {
	if math.Abs(x2-x1) < zeroSpanEpsilon {
		return y1
	}
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
