package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/parityagent-go/internal/api"
	"github.com/mcoot/parityagent-go/internal/api/handler"
	"github.com/mcoot/parityagent-go/internal/factory"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	agentURL   string
}

func newCLIRunner(t *testing.T, agentURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "parityctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/parityctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		agentURL:   agentURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--agent", r.agentURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "could not find project root")
		dir = parent
	}
}

// startAgent runs the agent router on a free port and returns its URL
func startAgent(t *testing.T) (string, *factory.TestApp) {
	t.Helper()

	app := factory.NewTestApp()
	app.Builder.SetAuthToken("tok-e2e")
	app.Tracker.SetAuthToken(context.Background(), "tok-e2e")

	router := api.NewRouter(api.RouterConfig{
		Logger: testutil.NopLogger(),
		Tools:  app.Tools,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: router}
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	url := fmt.Sprintf("http://%s", listener.Addr().String())

	// Wait for the server to come up
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	return url, app
}

func TestCLIAgainstRunningAgent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	agentURL, app := startAgent(t)
	cli := newCLIRunner(t, agentURL)

	t.Run("health", func(t *testing.T) {
		output, err := cli.run("health")
		require.NoError(t, err, "health output: %s", output)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.Equal(t, "healthy", result["status"])
	})

	t.Run("info", func(t *testing.T) {
		output, err := cli.run("info")
		require.NoError(t, err, "info output: %s", output)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.Equal(t, "online", result["status"])
		assert.Equal(t, "P01", result["player_id"])
		assert.Equal(t, true, result["registered"])
	})

	t.Run("stats after a match", func(t *testing.T) {
		winner := model.PlayerID("P01")
		_, rpcErr := app.Tools.NotifyMatchResult(context.Background(), handler.ResultParams{
			ConversationID: "conv-e2e",
			MatchID:        "R1M1",
			Winner:         &winner,
			DrawnNumber:    4,
			Choices:        map[model.PlayerID]string{"P01": "even", "P02": "odd"},
			OpponentID:     "P02",
		})
		require.Nil(t, rpcErr)

		output, err := cli.run("stats")
		require.NoError(t, err, "stats output: %s", output)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(output), &result))
		assert.Equal(t, float64(1), result["total_matches"])
		assert.Equal(t, float64(1), result["win_rate"])
	})
}
