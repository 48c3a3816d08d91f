// Package config provides configuration for the KPI report pipeline.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Default values
//	2. YAML file (config.yaml or configs/config.yaml, or an explicit path)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables use the KPI_ prefix:
//
//	KPI_PIPELINE_BASE_DIR=/srv/olist
//	KPI_LOGGING_LEVEL=debug
//	KPI_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths resolves the three input extracts and every output file against the
// configured base directory. The pipeline receives a *Paths value explicitly;
// nothing here is process-wide state.
//
//	paths, err := config.NewPaths(cfg.Pipeline.BaseDir)
//	for _, src := range paths.Sources() { ... }
package config
