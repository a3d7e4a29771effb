// Package report writes sweep results: the fixed-width results table, CSV
// and JSONL rows for later analysis, and an HTML chart rendered from the
// JSONL rows.
package report
