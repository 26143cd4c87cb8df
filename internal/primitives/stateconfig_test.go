package primitives

import (
	"strings"
	"testing"
)

func TestStateConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		newConfig   func() *StateConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "valid leaf",
			newConfig: func() *StateConfig {
				return NewStateConfig("leaf")
			},
			wantErr: false,
		},
		{
			name: "missing ID",
			newConfig: func() *StateConfig {
				return NewStateConfig("")
			},
			wantErr:     true,
			errContains: "ID is required",
		},
		{
			name: "dotted ID",
			newConfig: func() *StateConfig {
				return NewStateConfig("parent.child")
			},
			wantErr:     true,
			errContains: "invalid character '.'",
		},
		{
			name: "empty param name",
			newConfig: func() *StateConfig {
				return NewStateConfig("s").WithParams(map[string]any{"": 1})
			},
			wantErr:     true,
			errContains: "empty param name",
		},
		{
			name: "duplicate child",
			newConfig: func() *StateConfig {
				return NewStateConfig("parent").WithChildren([]*StateConfig{
					NewStateConfig("child"),
					NewStateConfig("child"),
				})
			},
			wantErr:     true,
			errContains: "duplicate child",
		},
		{
			name: "valid hierarchy with params",
			newConfig: func() *StateConfig {
				parent := NewStateConfig("parent").WithAbstract(true)
				parent.State("child1").WithParams(map[string]any{"param": nil})
				parent.State("child2")
				return parent
			},
			wantErr: false,
		},
		{
			name: "invalid child recursive",
			newConfig: func() *StateConfig {
				return NewStateConfig("parent").WithChildren([]*StateConfig{
					NewStateConfig("good"),
					NewStateConfig(""),
				})
			},
			wantErr:     true,
			errContains: "ID is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := tt.newConfig()
			err := sc.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf(`Validate() error = "%v", want contains "%s"`, err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestStateConfigChild(t *testing.T) {
	parent := NewStateConfig("parent")
	parent.State("child1")

	if c, ok := parent.Child("child1"); !ok || c.ID != "child1" {
		t.Errorf("Child(child1) = %v, %v", c, ok)
	}
	if _, ok := parent.Child("missing"); ok {
		t.Error("Child(missing) should not be found")
	}
}
