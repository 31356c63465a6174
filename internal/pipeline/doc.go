// Package pipeline sequences the report run: load, consolidate, derive,
// export, render. Steps share one State and the run halts at the first
// failing step.
package pipeline
