package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// loadLegacy reads the legacy key=value configuration format: one setting
// per line, # comments, whitespace-trimmed keys and values, list values
// comma-joined. Unknown keys are logged and ignored so old config files
// keep working.
func (c *Config) loadLegacy(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if err := c.applyLegacySetting(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid setting %q: %w", key, err)
		}
	}
	return scanner.Err()
}

func (c *Config) applyLegacySetting(key, value string) error {
	switch key {
	case "input_file":
		c.Pipeline.InputFile = value
	case "output_file":
		c.Pipeline.OutputFile = value
	case "time_column":
		c.Pipeline.TimeColumn = value
	case "delimiter":
		c.Pipeline.Delimiter = value
	case "dependent_variables":
		c.Pipeline.DependentVars = splitList(value)
	case "independent_variables":
		c.Pipeline.IndependentVars = splitList(value)
	case "target_time_interval":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.Pipeline.TargetInterval = f
	case "missing_value_strategy":
		c.Pipeline.Strategy = value
	case "numeric_precision":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.Pipeline.Precision = n
	case "solver_method":
		c.Pipeline.Solver = value
	default:
		slog.Debug("ignoring unknown legacy config key", slog.String("key", key))
	}
	return nil
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty items.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
