// Package handler implements the agent's three tool methods: invitation
// handling, parity choice, and result acknowledgment.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/parityagent-go/internal/api/rpc"
	"github.com/mcoot/parityagent-go/internal/dependencies/random"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/protocol"
	"github.com/mcoot/parityagent-go/internal/state"
	"github.com/mcoot/parityagent-go/internal/strategy"
)

// historyForPrompt bounds how much match history is fed to the decision
// engine per choice
const historyForPrompt = 10

// InvitationParams are the parameters of a game invitation
type InvitationParams struct {
	ConversationID string `json:"conversation_id"`
	MatchID        string `json:"match_id"`
	OpponentID     string `json:"opponent_id"`
	GameType       string `json:"game_type"`
	Deadline       string `json:"deadline"`
}

// ChoiceParams are the parameters of a parity choice request
type ChoiceParams struct {
	ConversationID string                 `json:"conversation_id"`
	MatchID        string                 `json:"match_id"`
	OpponentID     string                 `json:"opponent_id"`
	Standings      map[model.PlayerID]int `json:"standings"`
	Deadline       string                 `json:"deadline"`
}

// ResultParams are the parameters of a match result notification
type ResultParams struct {
	ConversationID string                    `json:"conversation_id"`
	MatchID        string                    `json:"match_id"`
	Winner         *model.PlayerID           `json:"winner"`
	DrawnNumber    int                       `json:"drawn_number"`
	Choices        map[model.PlayerID]string `json:"choices"`
	OpponentID     model.PlayerID            `json:"opponent_id"`
}

// Tools routes decoded tool calls to the tracker, engine, and builder
type Tools struct {
	tracker *state.Tracker
	engine  *strategy.Engine
	builder *protocol.Builder
	random  random.Random
	logger  *slog.Logger
}

// NewTools creates the tool handler set
func NewTools(tracker *state.Tracker, engine *strategy.Engine, builder *protocol.Builder, rnd random.Random, logger *slog.Logger) *Tools {
	return &Tools{
		tracker: tracker,
		engine:  engine,
		builder: builder,
		random:  rnd,
		logger:  logger.With(slog.String("component", "tools")),
	}
}

// Engine exposes the decision engine for status reporting
func (t *Tools) Engine() *strategy.Engine {
	return t.engine
}

// Tracker exposes the state tracker for status reporting
func (t *Tools) Tracker() *state.Tracker {
	return t.tracker
}

// syncAuthToken pushes a restored token into the builder. Covers the
// case where state was restored from a snapshot after the builder was
// constructed.
func (t *Tools) syncAuthToken() {
	if token := t.tracker.AuthToken(); token != "" && t.builder.AuthToken() == "" {
		t.builder.SetAuthToken(token)
	}
}

// HandleGameInvitation accepts a game invitation. Invitations are always
// accepted.
func (t *Tools) HandleGameInvitation(ctx context.Context, params InvitationParams) (protocol.GameJoinAck, *rpc.Error) {
	t.logger.Info("game invitation received",
		slog.String("match_id", params.MatchID),
		slog.String("opponent_id", params.OpponentID),
		slog.String("deadline", params.Deadline),
	)

	t.syncAuthToken()

	ack, err := t.builder.BuildGameJoinAck(params.ConversationID, params.MatchID, true)
	if err != nil {
		return protocol.GameJoinAck{}, toRPCError(err)
	}

	t.logger.Info("game invitation accepted", slog.String("match_id", params.MatchID))
	return ack, nil
}

// ChooseParity produces the parity choice for a match. The decision
// engine's failure modes never surface to the referee: any error or
// invalid answer is replaced by a fresh random draw before the response
// is built.
func (t *Tools) ChooseParity(ctx context.Context, params ChoiceParams) (protocol.ParityResponse, *rpc.Error) {
	t.logger.Info("parity choice requested",
		slog.String("match_id", params.MatchID),
		slog.String("opponent_id", params.OpponentID),
		slog.String("deadline", params.Deadline),
	)

	t.syncAuthToken()

	choice, err := t.engine.ChooseParity(ctx, strategy.Context{
		Opponent:  model.PlayerID(params.OpponentID),
		Standings: params.Standings,
		History:   t.tracker.History(historyForPrompt),
		Deadline:  params.Deadline,
	})
	if err != nil || !choice.Valid() {
		substitute := model.Choices()[t.random.Intn(len(model.Choices()))]
		t.logger.Error("decision engine failed, substituting random choice",
			slog.String("match_id", params.MatchID),
			slog.Any("error", err),
			slog.String("substitute", string(substitute)),
		)
		choice = substitute
	}

	resp, err := t.builder.BuildParityResponse(params.ConversationID, params.MatchID, choice)
	if err != nil {
		return protocol.ParityResponse{}, toRPCError(err)
	}

	t.logger.Info("parity choice made",
		slog.String("match_id", params.MatchID),
		slog.String("choice", string(choice)),
	)
	return resp, nil
}

// NotifyMatchResult records a match result and acknowledges it. Missing
// result fields degrade to sentinels rather than rejecting the
// notification.
func (t *Tools) NotifyMatchResult(ctx context.Context, params ResultParams) (protocol.ResultAck, *rpc.Error) {
	t.logger.Info("match result received",
		slog.String("match_id", params.MatchID),
		slog.Any("winner", params.Winner),
		slog.Int("drawn_number", params.DrawnNumber),
	)

	t.syncAuthToken()

	t.tracker.ApplyResult(ctx, model.MatchResult{
		MatchID:     params.MatchID,
		Winner:      params.Winner,
		DrawnNumber: params.DrawnNumber,
		Choices:     params.Choices,
		OpponentID:  params.OpponentID,
	})

	ack, err := t.builder.BuildResultAck(params.ConversationID, params.MatchID, protocol.StatusAcknowledged)
	if err != nil {
		return protocol.ResultAck{}, toRPCError(err)
	}
	return ack, nil
}

// toRPCError maps domain errors onto JSON-RPC error codes. Validation
// failures are invalid params; anything else is internal.
func toRPCError(err error) *rpc.Error {
	switch {
	case errors.Is(err, model.ErrAuthTokenNotSet),
		errors.Is(err, model.ErrInvalidChoice):
		return rpc.NewError(rpc.CodeInvalidParams, fmt.Sprintf("Invalid parameters: %v", err))
	default:
		return rpc.NewError(rpc.CodeInternalError, fmt.Sprintf("Internal error: %v", err))
	}
}
