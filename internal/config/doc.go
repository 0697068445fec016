// Package config loads Perch settings from ~/.config/perch/config.toml.
// A missing file is not an error; defaults point at a local server.
package config
