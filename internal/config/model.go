package config

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of a scheme configuration.
type Model struct {
	Blocks      []*Block
	Connections []*Connection
	Groups      []*Group
}

// Block is the format-agnostic representation of a `block` declaration.
type Block struct {
	Type string
	Name string

	EstimationPeriod time.Duration
	ControlPeriod    time.Duration

	Arguments map[string]cty.Value
}

// Connection is the format-agnostic representation of a `connect`
// declaration.
type Connection struct {
	From    string
	To      string
	Latched bool
}

// Group is the format-agnostic representation of a `group` declaration.
type Group struct {
	Name    string
	Members []string
}
