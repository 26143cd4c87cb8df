package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/activestate/internal/production"
)

const testConfig = `
log_level: debug
tree:
  id: site
  initial: home
  states:
    - id: home
    - id: users
      params:
        page: 1
      children:
        - id: detail
          params:
            id: null
groups:
  - class: active
    links:
      - name: home
        target: {state: home}
        exact: true
    groups:
      - class: people
        links:
          - name: users
            target: {state: users}
          - name: detail
            target: {state: .detail}
            base: users
guards:
  - state: users
    expr: page > 0
script:
  - state: users
    params: {page: 2}
  - state: users
    params: {page: 0}
  - state: users.detail
    params: {id: u1}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activestate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	path := writeConfig(t, testConfig)

	stdout, stderr, err := execute(t, "run", "-c", path)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"+ home",
		"+ active [active]",
		"- home",
		"+ users",
		"+ people [active people]",
		"+ detail",
		"",
		`2/3 navigations committed, current state "users.detail"`,
		"* detail",
		"  home",
		"* users",
		"",
	}, "\n"), stdout)
	assert.Contains(t, stderr, "navigation failed", "the guarded navigation is logged")
}

func TestRun_JSON(t *testing.T) {
	path := writeConfig(t, testConfig)

	stdout, _, err := execute(t, "run", "-c", path, "--json", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	var first production.ActivationChange
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "home", first.Name)
	assert.True(t, first.Active)
}

func TestRun_ResumeFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, testConfig+"snapshot_dir: "+dir+"\n")

	_, _, err := execute(t, "run", "-c", path, "--log-level", "error")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)

	stdout, _, err := execute(t, "run", "-c", path, "--resume", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "+ users\n"), "resumed session starts in users.detail:\n%s", stdout)
}

func TestRun_MissingConfig(t *testing.T) {
	_, _, err := execute(t, "run", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDot(t *testing.T) {
	path := writeConfig(t, testConfig)

	stdout, _, err := execute(t, "dot", "-c", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, `digraph "site" {`)
	assert.Contains(t, stdout, `"users.detail" [label="detail(id)" style=filled fillcolor=lightgreen];`)

	stdout, _, err = execute(t, "dot", "-c", path, "--no-replay", "--log-level", "error")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "fillcolor")
}

func TestRun_PrintsEveryChangeForLargeConfigs(t *testing.T) {
	const links = 100
	var b strings.Builder
	b.WriteString("tree:\n  id: big\n  states:\n    - id: home\n    - id: away\n")
	b.WriteString("groups:\n  - class: active\n    links:\n")
	for i := 0; i < links; i++ {
		fmt.Fprintf(&b, "      - name: link%03d\n        target: {state: home}\n", i)
	}
	b.WriteString("script:\n  - state: home\n  - state: away\n")
	path := writeConfig(t, b.String())

	stdout, _, err := execute(t, "run", "-c", path, "--log-level", "error")
	require.NoError(t, err)

	var plus, minus int
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "+ "):
			plus++
		case strings.HasPrefix(line, "- "):
			minus++
		}
	}
	assert.Equal(t, links+1, plus)
	assert.Equal(t, links+1, minus)
}
