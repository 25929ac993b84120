package app_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/relgraph/internal/app"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainModel = `
graph "demo" "chain" {}

schema "n" {
  kind = "node"

  feature "deg" {
    type  = "numeric"
    rule  = "degree"
    cache = true
  }
}

schema "e" {
  kind = "undirected_edge"
}

node "n" "a" {}
node "n" "b" {}
node "n" "c" {}

edge "e" "ab" {
  source = "n.a"
  target = "n.b"
}

edge "e" "bc" {
  source = "n.b"
  target = "n.c"
}

query "adjacent" "near" {
  item = "n.b"
}

query "distancen" "far" {
  item = "n.a"
  params = {
    depth    = 2
    distinct = true
  }
}
`

func TestRun_Queries(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{"model/main.hcl": chainModel}, app.Config{})
	require.NoError(t, res.Err)

	assert.Contains(t, res.Output, "query near (adjacent) of demo.chain.n.b: [demo.chain.n.a, demo.chain.n.c]")
	assert.Contains(t, res.Output, "query far (distancen) of demo.chain.n.a: [demo.chain.n.c]")
	assert.Contains(t, res.LogOutput, "Graph built.")
}

func TestRun_SelectedQuery(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{"main.hcl": chainModel}, app.Config{Queries: []string{"far"}})
	require.NoError(t, res.Err)
	assert.NotContains(t, res.Output, "query near")
	assert.Contains(t, res.Output, "query far")

	res = testutil.RunApp(t, map[string]string{"main.hcl": chainModel}, app.Config{Queries: []string{"missing"}})
	assert.ErrorContains(t, res.Err, "query 'missing' is not defined")
}

func TestRun_AdHocWithYAMLParams(t *testing.T) {
	files := map[string]string{
		"main.hcl": chainModel,
		"p.yaml":   "depth: 1\nincludeself: true\n",
	}
	cfg := app.Config{
		ModelPaths: []string{"main.hcl"},
		Queries:    []string{"near"},
		Neighbor:   "distancen",
		Item:       "n.c",
		ParamsPath: "p.yaml",
	}
	res := testutil.RunApp(t, files, cfg)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Output, "query distancen (distancen) of demo.chain.n.c: [demo.chain.n.b, demo.chain.n.c]")
}

func TestRun_ValuesAndMetrics(t *testing.T) {
	res := testutil.RunApp(t, map[string]string{"main.hcl": chainModel}, app.Config{ShowValues: true, ShowMetrics: true})
	require.NoError(t, res.Err)

	assert.Contains(t, res.Output, "graph demo.chain\n")
	assert.Contains(t, res.Output, "node demo.chain.n.b\n  deg = 2\n")
	assert.Contains(t, res.Output, "node demo.chain.n.a\n  deg = 1\n")
	assert.Contains(t, res.Output, "undirected_edge demo.chain.e.ab\n")
	assert.Contains(t, res.Output, "relgraph_memo_misses_total")
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown component", func(t *testing.T) {
		res := testutil.RunApp(t, map[string]string{"main.hcl": `
graph "g" "x" {}
query "nope" "q" {
  item = "n.a"
}
`}, app.Config{})
		assert.ErrorIs(t, res.Err, modelerr.ErrUnresolvableComponent)
		assert.NotNil(t, res.App, "loading succeeds; the build rejects the model")
	})

	t.Run("syntax error", func(t *testing.T) {
		res := testutil.RunApp(t, map[string]string{"main.hcl": `graph "g" "x" {`}, app.Config{})
		assert.ErrorContains(t, res.Err, "failed to parse")
		assert.Nil(t, res.App)
	})

	t.Run("no graph block", func(t *testing.T) {
		res := testutil.RunApp(t, map[string]string{"main.hcl": `schema "n" { kind = "node" }`}, app.Config{})
		assert.ErrorContains(t, res.Err, "no graph block")
	})
}

func TestRun_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	dir := t.TempDir()
	path := dir + "/main.hcl"
	require.NoError(t, writeFile(path, chainModel))

	cfg, err := app.NewConfig(app.Config{ModelPaths: []string{path}, ServeAddr: addr})
	require.NoError(t, err)
	a, err := app.NewApp(io.Discard, io.Discard, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := fmt.Sprintf("http://%s/health", addr)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	// The graph is built concurrently with the first probes.
	metricsURL := fmt.Sprintf("http://%s/metrics", addr)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(metricsURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(body), "relgraph_memo_entries")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
