package protocol_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/parityagent-go/internal/dependencies/mocks"
	"github.com/mcoot/parityagent-go/internal/model"
	"github.com/mcoot/parityagent-go/internal/protocol"
	"github.com/mcoot/parityagent-go/internal/timestamp"
)

type BuilderSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	builder *protocol.Builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.UTC))

	builder, err := protocol.NewBuilder("P01", timestamp.New(s.clock))
	s.Require().NoError(err)
	s.builder = builder
}

func (s *BuilderSuite) TestNewBuilder_EmptyPlayerID() {
	_, err := protocol.NewBuilder("", timestamp.New(s.clock))
	s.ErrorIs(err, model.ErrEmptyPlayerID)
}

func (s *BuilderSuite) TestBuildRegisterRequest_NoAuthRequired() {
	msg := s.builder.BuildRegisterRequest("reg-001", "Test Agent", "http://localhost:8101/mcp")

	s.Equal("league.v2", msg.Protocol)
	s.Equal("LEAGUE_REGISTER_REQUEST", msg.MessageType)
	s.Equal("player:P01", msg.Sender)
	s.Equal("2025-01-15T10:30:00.123456Z", msg.Timestamp)
	s.Equal("reg-001", msg.ConversationID)
	s.Empty(msg.AuthToken)
	s.Equal(model.PlayerID("P01"), msg.PlayerID)
	s.Equal("Test Agent", msg.DisplayName)
	s.Equal("http://localhost:8101/mcp", msg.CallbackURL)
}

func (s *BuilderSuite) TestBuildRegisterRequest_AuthTokenOmittedFromJSON() {
	msg := s.builder.BuildRegisterRequest("reg-001", "Test Agent", "http://localhost:8101/mcp")

	data, err := json.Marshal(msg)
	s.Require().NoError(err)

	var fields map[string]any
	s.Require().NoError(json.Unmarshal(data, &fields))
	s.NotContains(fields, "auth_token")
}

func (s *BuilderSuite) TestAuthenticatedBuilders_RequireToken() {
	_, err := s.builder.BuildGameJoinAck("conv-001", "R1M1", true)
	s.ErrorIs(err, model.ErrAuthTokenNotSet)
	s.ErrorContains(err, "GAME_JOIN_ACK")

	_, err = s.builder.BuildParityResponse("conv-001", "R1M1", model.ChoiceEven)
	s.ErrorIs(err, model.ErrAuthTokenNotSet)
	s.ErrorContains(err, "CHOOSE_PARITY_RESPONSE")

	_, err = s.builder.BuildResultAck("conv-001", "R1M1", "")
	s.ErrorIs(err, model.ErrAuthTokenNotSet)
	s.ErrorContains(err, "RESULT_ACKNOWLEDGMENT")
}

func (s *BuilderSuite) TestBuildGameJoinAck() {
	s.builder.SetAuthToken("token-12345")

	msg, err := s.builder.BuildGameJoinAck("conv-game-001", "R1M1", true)
	s.Require().NoError(err)

	s.Equal("GAME_JOIN_ACK", msg.MessageType)
	s.Equal("token-12345", msg.AuthToken)
	s.Equal("R1M1", msg.MatchID)
	s.Equal(model.PlayerID("P01"), msg.PlayerID)
	s.Equal("2025-01-15T10:30:00.123456Z", msg.ArrivalTimestamp)
	s.True(msg.Accept)
}

func (s *BuilderSuite) TestBuildParityResponse_ValidChoices() {
	s.builder.SetAuthToken("token-12345")

	for _, choice := range model.Choices() {
		msg, err := s.builder.BuildParityResponse("conv-choice-001", "R1M1", choice)
		s.Require().NoError(err)
		s.Equal(choice, msg.ParityChoice)
		s.Equal("CHOOSE_PARITY_RESPONSE", msg.MessageType)
	}
}

func (s *BuilderSuite) TestBuildParityResponse_RejectsInvalidChoices() {
	s.builder.SetAuthToken("token-12345")

	for _, invalid := range []string{"Even", "ODD", "", "left"} {
		_, err := s.builder.BuildParityResponse("conv-choice-001", "R1M1", model.Choice(invalid))
		s.ErrorIs(err, model.ErrInvalidChoice, "choice %q should be rejected", invalid)
		if invalid != "" {
			s.ErrorContains(err, invalid)
		}
	}
}

func (s *BuilderSuite) TestBuildResultAck_DefaultStatus() {
	s.builder.SetAuthToken("token-12345")

	msg, err := s.builder.BuildResultAck("conv-result-001", "R1M1", "")
	s.Require().NoError(err)
	s.Equal("acknowledged", msg.Status)
	s.Equal("R1M1", msg.MatchID)
}

func (s *BuilderSuite) TestSetAuthToken_Overwrite() {
	s.builder.SetAuthToken("first")
	s.builder.SetAuthToken("second")
	s.Equal("second", s.builder.AuthToken())

	msg, err := s.builder.BuildResultAck("conv-001", "R1M1", "acknowledged")
	s.Require().NoError(err)
	s.Equal("second", msg.AuthToken)
}
