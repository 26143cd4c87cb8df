package extensibility

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
)

// LoggingObserver writes router transitions and activation flips to a zerolog logger.
type LoggingObserver struct {
	logger zerolog.Logger
}

// NewLoggingObserver creates a new LoggingObserver.
func NewLoggingObserver(logger zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// WatchRouter logs committed and failed transitions until the returned function is called.
func (o *LoggingObserver) WatchRouter(r *core.Router) activestate.DeregisterFunc {
	stopSuccess := r.OnSuccess(func(res activestate.TransitionResult) {
		o.logger.Info().
			Str("router", r.ID()).
			Str("state", res.State).
			Interface("params", res.Params).
			Strs("entered", res.Entered).
			Strs("exited", res.Exited).
			Msg("transition")
	})
	stopError := r.OnError(func(e *core.TransitionError) {
		o.logger.Warn().
			Str("router", r.ID()).
			Str("to", e.Transition.To.State).
			Err(e.Err).
			Msg("transition failed")
	})
	return func() {
		stopSuccess()
		stopError()
	}
}

// WatchMatcher logs each flip of m under name.
func (o *LoggingObserver) WatchMatcher(name string, m *activestate.Matcher) activestate.DeregisterFunc {
	return m.OnChange(func(active bool) {
		_, resolved := m.Target()
		o.logger.Debug().
			Str("link", name).
			Str("target", resolved).
			Bool("active", active).
			Msg("link activation")
	})
}

// WatchGroup logs each flip of g along with the classes now applied.
func (o *LoggingObserver) WatchGroup(g *activestate.Group) activestate.DeregisterFunc {
	return g.OnChange(func(active bool) {
		o.logger.Info().
			Str("group", g.Class()).
			Bool("active", active).
			Str("classes", strings.Join(g.Classes(), " ")).
			Msg("group activation")
	})
}
