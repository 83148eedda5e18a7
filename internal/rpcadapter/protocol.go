package rpcadapter

import "encoding/json"

// Request is one JSON frame received on the rep socket.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the JSON frame sent back for every request.
type Response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// SwitchParams carries a controller-manager style switch request.
type SwitchParams struct {
	StartControllers []string `json:"start_controllers"`
	StopControllers  []string `json:"stop_controllers"`
	Strictness       string   `json:"strictness"`
}

// Strictness values accepted in SwitchParams.
const (
	StrictnessStrict     = "STRICT"
	StrictnessBestEffort = "BEST_EFFORT"
)

// ControllerState describes one block or group in a list response.
type ControllerState struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	State string `json:"state,omitempty"`
}

// ListResult is the result payload of list_controllers.
type ListResult struct {
	Controllers []ControllerState `json:"controllers"`
}

// SwitchResult is the result payload of switch_controllers.
type SwitchResult struct {
	OK bool `json:"ok"`
}

// Methods the adapter understands. The remaining controller-manager
// calls are answered but unsupported: blocks are compiled in, not
// loadable libraries.
const (
	MethodSwitchControllers    = "switch_controllers"
	MethodListControllers      = "list_controllers"
	MethodListControllerTypes  = "list_controller_types"
	MethodLoadController       = "load_controller"
	MethodUnloadController     = "unload_controller"
	MethodReloadControllerLibs = "reload_controller_libraries"
)
