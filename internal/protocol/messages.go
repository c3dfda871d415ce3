package protocol

import "github.com/mcoot/parityagent-go/internal/model"

// Version is the protocol tag carried by every outbound message
const Version = "league.v2"

// Message types built by this agent
const (
	MessageTypeRegisterRequest = "LEAGUE_REGISTER_REQUEST"
	MessageTypeGameJoinAck     = "GAME_JOIN_ACK"
	MessageTypeParityResponse  = "CHOOSE_PARITY_RESPONSE"
	MessageTypeResultAck       = "RESULT_ACKNOWLEDGMENT"
)

// StatusAcknowledged is the default result-acknowledgment status
const StatusAcknowledged = "acknowledged"

// Envelope carries the metadata fields required on every league.v2 message.
// AuthToken is present on every message type except the registration request.
type Envelope struct {
	Protocol       string `json:"protocol"`
	MessageType    string `json:"message_type"`
	Sender         string `json:"sender"`
	Timestamp      string `json:"timestamp"`
	ConversationID string `json:"conversation_id"`
	AuthToken      string `json:"auth_token,omitempty"`
}

// RegisterRequest is the LEAGUE_REGISTER_REQUEST message sent to the
// league manager. Registration precedes authentication, so it carries
// no auth token.
type RegisterRequest struct {
	Envelope
	PlayerID    model.PlayerID `json:"player_id"`
	DisplayName string         `json:"display_name"`
	CallbackURL string         `json:"callback_url"`
}

// GameJoinAck is the GAME_JOIN_ACK response to a game invitation
type GameJoinAck struct {
	Envelope
	MatchID          string         `json:"match_id"`
	PlayerID         model.PlayerID `json:"player_id"`
	ArrivalTimestamp string         `json:"arrival_timestamp"`
	Accept           bool           `json:"accept"`
}

// ParityResponse is the CHOOSE_PARITY_RESPONSE carrying this player's
// parity choice for a match
type ParityResponse struct {
	Envelope
	MatchID      string         `json:"match_id"`
	PlayerID     model.PlayerID `json:"player_id"`
	ParityChoice model.Choice   `json:"parity_choice"`
}

// ResultAck is the RESULT_ACKNOWLEDGMENT response to a match result
type ResultAck struct {
	Envelope
	MatchID string `json:"match_id"`
	Status  string `json:"status"`
}
