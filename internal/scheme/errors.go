package scheme

import "errors"

var (
	// ErrUnknownBlock is returned when a name is not present in the host
	// peer registry.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrBlockLacksHook is returned when a block exposes no cycle hooks.
	ErrBlockLacksHook = errors.New("block does not implement the hook contract")
	// ErrConflictingBlockRunning is returned when enable is refused because
	// a conflicting block is running and force is off.
	ErrConflictingBlockRunning = errors.New("conflicting block is running")
	// ErrBlockNotConfigured is returned when enabling an unconfigured block.
	ErrBlockNotConfigured = errors.New("block is not configured")
	// ErrUnknownPort is returned when a connection endpoint cannot be
	// resolved.
	ErrUnknownPort = errors.New("unknown port")
)
