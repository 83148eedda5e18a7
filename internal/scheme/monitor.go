package scheme

import (
	"time"

	"github.com/vk/blockflow/internal/port"
)

// Monitor receives scheme observations. The metrics package provides the
// prometheus-backed implementation; a nil monitor is replaced by a no-op.
type Monitor interface {
	RecordTick(d time.Duration)
	RecordHook(blockName string, layer port.Layer, d time.Duration, err error)
	RecordRebuild(layer port.Layer, ok bool)
	SetRunningBlocks(n int)
	SetOrderLength(layer port.Layer, n int)
}

type nopMonitor struct{}

func (nopMonitor) RecordTick(time.Duration)                            {}
func (nopMonitor) RecordHook(string, port.Layer, time.Duration, error) {}
func (nopMonitor) RecordRebuild(port.Layer, bool)                      {}
func (nopMonitor) SetRunningBlocks(int)                                {}
func (nopMonitor) SetOrderLength(port.Layer, int)                      {}
