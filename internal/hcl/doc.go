// Package hcl loads scheme configuration files into the format-agnostic
// config model.
package hcl
