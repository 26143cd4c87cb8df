package extensibility

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/testutil"
)

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	obs := NewLoggingObserver(logger)

	r := testutil.MakeTestRouter(t, []testutil.StateDecl{{Name: "home"}, {Name: "docs"}})
	stop := obs.WatchRouter(r.Router)
	defer stop()

	m, err := activestate.NewMatcher(r, activestate.Target{State: "docs"})
	require.NoError(t, err)
	defer m.Close()
	obs.WatchMatcher("docs-link", m)

	g := activestate.NewGroup("active")
	_, err = g.Bind(m)
	require.NoError(t, err)
	defer g.Close()
	obs.WatchGroup(g)

	r.Navigate("docs", nil)
	_, err = r.Go(context.Background(), "nowhere", nil)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"transition"`)
	assert.Contains(t, out, `"state":"docs"`)
	assert.Contains(t, out, `"message":"transition failed"`)
	assert.Contains(t, out, `"link":"docs-link"`)
	assert.Contains(t, out, `"group":"active"`)
	assert.Contains(t, out, `"classes":"active"`)
}
