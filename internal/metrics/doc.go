// Package metrics derives the report's headline figures from the
// consolidated indicator table: percent changes, male/female ratios,
// territorial disparity and the mortality/life-expectancy correlation.
package metrics
