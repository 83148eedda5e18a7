package scheme

import (
	"fmt"
	"time"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
)

// Update runs one cycle: the estimation layer's ordering in full, then
// the control layer's. A single timestamp is captured for the whole cycle
// so co-periodic blocks observe the same time. A block whose hook fails
// is demoted to Stopped and the walk continues.
func (s *Scheme) Update(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	t := now.Sub(s.epoch).Seconds()

	for _, l := range port.Layers {
		for _, name := range s.orders[l] {
			h, ok := s.blocks[name]
			if !ok || !h.IsRunning() {
				continue
			}
			elapsed := now.Sub(h.LastRun(l))
			if elapsed < h.Period(l) {
				continue
			}

			hookStart := time.Now()
			err := runLayerHooks(h, l, t, elapsed)
			s.monitor.RecordHook(name, l, time.Since(hookStart), err)
			if err != nil {
				s.logger.Error("block hook failed, stopping block",
					"block", name, "layer", l, "error", err)
				h.ForceStop()
				s.monitor.SetRunningBlocks(s.runningCount())
				continue
			}
			h.MarkRun(l, now)
		}
	}

	s.monitor.RecordTick(time.Since(start))
}

func runLayerHooks(h *block.Handle, l port.Layer, t float64, dt time.Duration) error {
	hooks := h.Hooks()
	switch l {
	case port.Estimation:
		if hooks.ReadHardware != nil {
			if err := hooks.ReadHardware(t, dt); err != nil {
				return fmt.Errorf("read hardware: %w", err)
			}
		}
		if hooks.ComputeEstimation != nil {
			if err := hooks.ComputeEstimation(t, dt); err != nil {
				return fmt.Errorf("compute estimation: %w", err)
			}
		}
	case port.Control:
		if hooks.ComputeControl != nil {
			if err := hooks.ComputeControl(t, dt); err != nil {
				return fmt.Errorf("compute control: %w", err)
			}
		}
		if hooks.WriteHardware != nil {
			if err := hooks.WriteHardware(t, dt); err != nil {
				return fmt.Errorf("write hardware: %w", err)
			}
		}
	}
	return nil
}
