package primitives

// Navigation is the request to move the router to a state.
//
// Navigations are value types. Once created, their Params map should be treated as read-only;
// routers copy it before merging defaults.
//
// Example:
//
//	nav := NewNavigation("withParams", map[string]any{"param": 5})
type Navigation struct {
	State  string         `json:"state" yaml:"state"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// NewNavigation creates and returns a new Navigation.
func NewNavigation(state string, params map[string]any) Navigation {
	return Navigation{
		State:  state,
		Params: params,
	}
}
