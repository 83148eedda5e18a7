package app

import (
	"github.com/vk/blockflow/blocks/console"
	"github.com/vk/blockflow/blocks/pid"
	"github.com/vk/blockflow/blocks/sine"
	"github.com/vk/blockflow/blocks/telemetry"
	"github.com/vk/blockflow/internal/registry"
)

// coreModules is the definitive list of block modules compiled into the
// blockflow binary.
var coreModules = []registry.Module{
	&sine.Module{},
	&pid.Module{},
	&console.Module{},
	&telemetry.Module{},
}
