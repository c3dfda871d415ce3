// Package protocol builds league.v2 wire messages.
//
// The builder is the last line of defense before a message reaches the
// wire: it refuses to construct authenticated messages without a token and
// refuses parity responses whose choice is not in the canonical set.
package protocol

import (
	"fmt"
	"sync"

	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/timestamp"
)

// Builder constructs outbound protocol messages for a single player.
// It is safe for concurrent use; the token is set once at registration
// and read on every subsequent build.
type Builder struct {
	playerID   model.PlayerID
	timestamps *timestamp.Authority

	mu        sync.RWMutex
	authToken string
}

// NewBuilder creates a message builder for the given player
func NewBuilder(playerID model.PlayerID, timestamps *timestamp.Authority) (*Builder, error) {
	if playerID == "" {
		return nil, model.ErrEmptyPlayerID
	}
	return &Builder{
		playerID:   playerID,
		timestamps: timestamps,
	}, nil
}

// SetAuthToken stores the token received from registration. All
// authenticated message types require it.
func (b *Builder) SetAuthToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authToken = token
}

// AuthToken returns the currently set token, or empty if unregistered
func (b *Builder) AuthToken() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.authToken
}

// envelope assembles the common metadata fields. Requesting auth before a
// token has been set is a configuration error, never a degraded message.
func (b *Builder) envelope(messageType, conversationID string, includeAuth bool) (Envelope, error) {
	env := Envelope{
		Protocol:       Version,
		MessageType:    messageType,
		Sender:         fmt.Sprintf("player:%s", b.playerID),
		Timestamp:      b.timestamps.Now(),
		ConversationID: conversationID,
	}

	if includeAuth {
		token := b.AuthToken()
		if token == "" {
			return Envelope{}, fmt.Errorf("%w: %s requires auth_token; set it after registration", model.ErrAuthTokenNotSet, messageType)
		}
		env.AuthToken = token
	}

	return env, nil
}

// BuildRegisterRequest builds the LEAGUE_REGISTER_REQUEST sent to the
// league manager before any token exists
func (b *Builder) BuildRegisterRequest(conversationID, displayName, callbackURL string) RegisterRequest {
	// Registration cannot fail on auth: it is the only unauthenticated type.
	env, _ := b.envelope(MessageTypeRegisterRequest, conversationID, false)
	return RegisterRequest{
		Envelope:    env,
		PlayerID:    b.playerID,
		DisplayName: displayName,
		CallbackURL: callbackURL,
	}
}

// BuildGameJoinAck builds the GAME_JOIN_ACK response to an invitation.
// The arrival timestamp is generated independently of the envelope
// timestamp rather than copied from it.
func (b *Builder) BuildGameJoinAck(conversationID, matchID string, accept bool) (GameJoinAck, error) {
	env, err := b.envelope(MessageTypeGameJoinAck, conversationID, true)
	if err != nil {
		return GameJoinAck{}, err
	}
	return GameJoinAck{
		Envelope:         env,
		MatchID:          matchID,
		PlayerID:         b.playerID,
		ArrivalTimestamp: b.timestamps.Now(),
		Accept:           accept,
	}, nil
}

// BuildParityResponse builds the CHOOSE_PARITY_RESPONSE for a match.
// The choice must already be canonical lowercase "even" or "odd".
func (b *Builder) BuildParityResponse(conversationID, matchID string, choice model.Choice) (ParityResponse, error) {
	if !choice.Valid() {
		return ParityResponse{}, fmt.Errorf("%w: %q (must be lowercase \"even\" or \"odd\")", model.ErrInvalidChoice, choice)
	}

	env, err := b.envelope(MessageTypeParityResponse, conversationID, true)
	if err != nil {
		return ParityResponse{}, err
	}
	return ParityResponse{
		Envelope:     env,
		MatchID:      matchID,
		PlayerID:     b.playerID,
		ParityChoice: choice,
	}, nil
}

// BuildResultAck builds the RESULT_ACKNOWLEDGMENT for a match result.
// An empty status defaults to "acknowledged".
func (b *Builder) BuildResultAck(conversationID, matchID, status string) (ResultAck, error) {
	env, err := b.envelope(MessageTypeResultAck, conversationID, true)
	if err != nil {
		return ResultAck{}, err
	}
	if status == "" {
		status = StatusAcknowledged
	}
	return ResultAck{
		Envelope: env,
		MatchID:  matchID,
		Status:   status,
	}, nil
}
