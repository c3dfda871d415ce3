// Package registration implements the one-shot registration exchange
// with the league manager.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/protocol"
)

// DefaultTimeout bounds the registration HTTP request
const DefaultTimeout = 10 * time.Second

// Config holds registration client settings
type Config struct {
	// ManagerURL is the league manager's JSON-RPC endpoint
	// (e.g., http://localhost:8000/mcp)
	ManagerURL string

	// CallbackURL is this agent's own JSON-RPC endpoint, advertised to
	// the manager so it can deliver game messages
	CallbackURL string

	// Timeout bounds the HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Client registers the player with the league manager and returns the
// issued auth token
type Client struct {
	cfg         Config
	builder     *protocol.Builder
	displayName string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a registration client
func NewClient(cfg Config, builder *protocol.Builder, displayName string, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:         cfg,
		builder:     builder,
		displayName: displayName,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With(slog.String("component", "registration")),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result *registerResult `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type registerResult struct {
	AuthToken string `json:"auth_token"`
}

// Register sends a LEAGUE_REGISTER_REQUEST to the manager and returns
// the auth token. Any response without a token is a registration
// failure.
func (c *Client) Register(ctx context.Context) (string, error) {
	conversationID := fmt.Sprintf("registration-%s", uuid.NewString()[:8])
	message := c.builder.BuildRegisterRequest(conversationID, c.displayName, c.cfg.CallbackURL)

	c.logger.Info("registering with league manager",
		slog.String("manager_url", c.cfg.ManagerURL),
		slog.String("callback_url", c.cfg.CallbackURL),
		slog.String("conversation_id", conversationID),
	)

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "league_register",
		Params:  message,
		ID:      1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistrationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ManagerURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistrationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistrationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: manager returned status %d", model.ErrRegistrationFailed, resp.StatusCode)
	}

	var parsed rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistrationFailed, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", model.ErrRegistrationFailed, parsed.Error.Message)
	}
	if parsed.Result == nil || parsed.Result.AuthToken == "" {
		return "", fmt.Errorf("%w: no auth_token in response", model.ErrRegistrationFailed)
	}

	c.logger.Info("registration successful")
	return parsed.Result.AuthToken, nil
}
