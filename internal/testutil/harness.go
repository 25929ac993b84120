package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/relgraph/internal/app"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp writes files into a temporary directory and runs the application
// on it. File names are relative to that directory. When cfg names no model
// paths the directory itself is loaded.
func RunApp(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	if len(cfg.ModelPaths) == 0 {
		cfg.ModelPaths = []string{dir}
	} else {
		for i, p := range cfg.ModelPaths {
			cfg.ModelPaths[i] = filepath.Join(dir, p)
		}
	}
	if cfg.ParamsPath != "" {
		cfg.ParamsPath = filepath.Join(dir, cfg.ParamsPath)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	result := &HarnessResult{}

	a, err := app.NewApp(out, logs, &cfg)
	if err == nil {
		result.App = a
		err = a.Run(context.Background())
	}
	result.Err = err
	result.Output = out.String()
	result.LogOutput = logs.String()

	if os.Getenv("RELGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
