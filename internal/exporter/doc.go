// Package exporter writes the tabular report artifacts.
//
// CSVWriter emits the consolidated indicator table as consolidado.csv,
// with a UTF-8 BOM for Excel compatibility and deterministic row order.
// WorkbookWriter emits resumen.xlsx with the headline figures and the
// full department ranking.
package exporter
