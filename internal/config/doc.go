// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every field is optional: missing values fall back to the Default* constants,
// and Default returns a complete configuration without reading a file.
package config
