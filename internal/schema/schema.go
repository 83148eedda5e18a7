// Package schema declares the HCL surface of a scheme file: block
// instances, connections between their ports, and groups.
package schema

import "github.com/hashicorp/hcl/v2"

// BlockArgs represents the content of the 'arguments' block within a
// block declaration. The loader reads it as a flat set of attributes and
// evaluates each one to a cty value; the block type's factory converts
// those values.
type BlockArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Block represents a `block` declaration: one instance of a registered
// block type.
type Block struct {
	Type string `hcl:"block_type,label"`
	Name string `hcl:"instance_name,label"`

	// Per-layer execution periods, duration strings. Empty means every
	// cycle.
	EstimationPeriod string `hcl:"estimation_period,optional"`
	ControlPeriod    string `hcl:"control_period,optional"`

	Arguments *BlockArgs `hcl:"arguments,block"`
}

// Connection represents a `connect` declaration wiring an output port to
// an input port, both written as "block.port".
type Connection struct {
	From    string `hcl:"from"`
	To      string `hcl:"to"`
	Latched bool   `hcl:"latched,optional"`
}

// Group represents a `group` declaration naming a set of blocks.
type Group struct {
	Name    string   `hcl:"group_name,label"`
	Members []string `hcl:"members"`
}

// SchemeConfig is the top-level structure of a scheme file.
type SchemeConfig struct {
	Blocks      []*Block      `hcl:"block,block"`
	Connections []*Connection `hcl:"connect,block"`
	Groups      []*Group      `hcl:"group,block"`
	Body        hcl.Body      `hcl:",remain"`
}
