// Package render draws the thirteen report figures as PNG files and
// assembles the static HTML dashboard that presents them.
package render
