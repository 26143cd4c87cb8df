package extensibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
)

// ErrGuardFailed is the rejection reason for transitions a ParamGuard blocks.
var ErrGuardFailed = fmt.Errorf("%w: param guard failed", core.ErrRejected)

// ParamGuard rejects transitions into a subtree whose params fail a simple expression
// such as "page > 0", "tab != admin" or "param == 5".
type ParamGuard struct {
	State string
	Expr  string

	key string
	op  string
	val string
}

// NewParamGuard parses expr ("key op value") for transitions entering state or its descendants.
func NewParamGuard(state, expr string) (*ParamGuard, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return nil, fmt.Errorf("guard %q: want \"key op value\"", expr)
	}
	switch parts[1] {
	case "==", "!=", ">", "<", ">=", "<=":
	default:
		return nil, fmt.Errorf("guard %q: unknown operator %q", expr, parts[1])
	}
	return &ParamGuard{State: state, Expr: expr, key: parts[0], op: parts[1], val: parts[2]}, nil
}

// Install registers the guard as a start hook on r.
func (g *ParamGuard) Install(r *core.Router) activestate.DeregisterFunc {
	return r.OnStart(g.Check)
}

// Check rejects t when it targets the guarded subtree and its params fail the expression.
func (g *ParamGuard) Check(t *core.Transition) {
	if !activestate.IsAncestor(g.State, t.To.State) {
		return
	}
	if !g.Eval(t.To.Params) {
		t.Reject(fmt.Errorf("%w: %s", ErrGuardFailed, g.Expr))
	}
}

// Eval evaluates the expression against params. A missing key fails every operator but "!=".
func (g *ParamGuard) Eval(params activestate.Params) bool {
	v, ok := params[g.key]
	if !ok || v == nil {
		return g.op == "!=" && g.val != "nil"
	}

	switch g.op {
	case "==":
		return g.equal(v)
	case "!=":
		return !g.equal(v)
	}

	want, err := strconv.ParseFloat(g.val, 64)
	if err != nil {
		return false
	}
	got, ok := number(v)
	if !ok {
		return false
	}
	switch g.op {
	case ">":
		return got > want
	case "<":
		return got < want
	case ">=":
		return got >= want
	case "<=":
		return got <= want
	}
	return false
}

func (g *ParamGuard) equal(v any) bool {
	switch g.val {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	}
	if want, err := strconv.ParseFloat(g.val, 64); err == nil {
		if got, ok := number(v); ok {
			return got == want
		}
	}
	return fmt.Sprint(v) == g.val
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
