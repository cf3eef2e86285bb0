// Package cleaner repairs tabular data in place through three independent
// passes: duplicate elimination, missing-value imputation, and numeric
// format normalization.
//
// # Usage
//
// Run the full fixed-order pipeline:
//
//	c := cleaner.New(logger, cleaner.DefaultConfig())
//	stats := c.CleanWithStats(tbl)
//
// Or call the passes independently:
//
//	removed := c.RemoveDuplicates(tbl)
//	imputed := c.ImputeMissing(tbl)
//
// # Error Handling
//
// No pass returns an error. Malformed individual cells are always left
// as-is with a best-effort fallback; they never abort the containing
// operation.
package cleaner
