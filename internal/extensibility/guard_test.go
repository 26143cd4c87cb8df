package extensibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
	"github.com/comalice/activestate/testutil"
)

func TestParamGuard_Eval(t *testing.T) {
	tests := []struct {
		expr   string
		params activestate.Params
		want   bool
	}{
		{"page > 0", activestate.Params{"page": 3}, true},
		{"page > 0", activestate.Params{"page": 0}, false},
		{"page >= 3", activestate.Params{"page": 3.0}, true},
		{"page < 10", activestate.Params{"page": "4"}, true},
		{"page <= 2", activestate.Params{"page": 5}, false},
		{"tab == admin", activestate.Params{"tab": "admin"}, true},
		{"tab != admin", activestate.Params{"tab": "users"}, true},
		{"tab != admin", activestate.Params{}, true},
		{"tab == admin", activestate.Params{}, false},
		{"flag == true", activestate.Params{"flag": true}, true},
		{"param == 5", activestate.Params{"param": "5"}, true},
		{"page > 0", activestate.Params{"page": "abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			g, err := NewParamGuard("s", tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Eval(tt.params))
		})
	}
}

func TestNewParamGuard_Invalid(t *testing.T) {
	_, err := NewParamGuard("s", "page >")
	assert.Error(t, err)
	_, err = NewParamGuard("s", "page ~ 3")
	assert.Error(t, err)
}

func TestParamGuard_RejectsSubtree(t *testing.T) {
	r := testutil.MakeTestRouter(t, []testutil.StateDecl{
		{Name: "home"},
		{Name: "users", Params: map[string]any{"page": 1}},
		{Name: "users.detail", Params: map[string]any{"page": 1}},
	})
	g, err := NewParamGuard("users", "page > 0")
	require.NoError(t, err)
	stop := g.Install(r.Router)

	r.Navigate("users", map[string]any{"page": 2})

	_, err = r.Go(context.Background(), "users.detail", map[string]any{"page": 0})
	require.ErrorIs(t, err, ErrGuardFailed)
	assert.ErrorIs(t, err, core.ErrRejected)
	assert.Equal(t, "users", r.Current().State)

	r.Navigate("home", nil)

	stop()
	r.Navigate("users", map[string]any{"page": 0})
	assert.Equal(t, 0, r.Current().Params["page"])
}
