// Package registry maps block type names to the factories that build
// their handles. Compiled-in block packages self-register through the
// Module interface, mirroring how the host application assembles its
// block set.
package registry
