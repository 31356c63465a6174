// Package dataset implements the raw loader and the consolidator: it reads
// the six indicator sources (CSV, or XLSX where the portal only publishes
// workbooks), validates them against the fixed department catalog and the
// 2010-2023 observation window, and joins them into one consolidated table
// keyed by (year, department, sex).
//
// The consolidated Table is the single shared read-only artifact of a run.
// Absent cells are explicit "no data" and are excluded from all downstream
// aggregates; in particular, life expectancy has no 2023 values and that is
// not an error.
package dataset
