// Package config centralizes runtime configuration and path resolution for
// the reporting pipeline.
//
// Configuration is layered: built-in defaults, then an optional config.yaml
// in the working directory, then EPIREPORT_* environment variables. The
// binary itself takes no flags, so defaults alone produce a working run:
// sources are read from ./data and artifacts are written to ./output.
package config
