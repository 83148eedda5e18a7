// Package config holds the format-agnostic model of a scheme
// configuration and the loader contract concrete formats implement.
package config
