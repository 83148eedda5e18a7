// Package app contains the host application: it loads the scheme
// configuration, instantiates blocks through the registry, wires them
// into a scheme, and drives the periodic update loop, decoupled from any
// specific entrypoint like a CLI.
package app
