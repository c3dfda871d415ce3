package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/parityagent-go/internal/api/handler"
	"github.com/mcoot/parityagent-go/internal/api/rpc"
)

// Tool method names exposed on the JSON-RPC endpoint
const (
	MethodHandleGameInvitation = "handle_game_invitation"
	MethodChooseParity         = "choose_parity"
	MethodNotifyMatchResult    = "notify_match_result"
)

// dispatcher routes JSON-RPC requests to the tool handlers
type dispatcher struct {
	tools  *handler.Tools
	logger *slog.Logger
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rpc.Write(w, http.StatusOK, rpc.NewErrorResponse(nil,
			rpc.NewError(rpc.CodeParseError, "Parse error")))
		return
	}

	req, err := rpc.Decode(body)
	if err != nil {
		d.logger.Warn("malformed request body", slog.Any("error", err))
		rpc.Write(w, http.StatusOK, rpc.NewErrorResponse(nil,
			rpc.NewError(rpc.CodeParseError, "Parse error")))
		return
	}

	if req.JSONRPC != rpc.Version {
		rpc.Write(w, http.StatusOK, rpc.NewErrorResponse(req.ID,
			rpc.NewError(rpc.CodeInvalidRequest, "Invalid request: unsupported jsonrpc version")))
		return
	}

	d.logger.Info("rpc request received",
		slog.String("method", req.Method),
		slog.Int("request_id", req.ID),
	)

	result, rpcErr := d.dispatch(r, req)
	if rpcErr != nil {
		rpc.Write(w, http.StatusOK, rpc.NewErrorResponse(req.ID, rpcErr))
		return
	}

	rpc.Write(w, http.StatusOK, rpc.NewResult(req.ID, result))
}

func (d *dispatcher) dispatch(r *http.Request, req rpc.Request) (any, *rpc.Error) {
	switch req.Method {
	case MethodHandleGameInvitation:
		var params handler.InvitationParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		return d.tools.HandleGameInvitation(r.Context(), params)

	case MethodChooseParity:
		var params handler.ChoiceParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		return d.tools.ChooseParity(r.Context(), params)

	case MethodNotifyMatchResult:
		var params handler.ResultParams
		if rpcErr := decodeParams(req.Params, &params); rpcErr != nil {
			return nil, rpcErr
		}
		return d.tools.NotifyMatchResult(r.Context(), params)

	default:
		d.logger.Warn("unknown method called", slog.String("method", req.Method))
		return nil, rpc.NewError(rpc.CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// decodeParams unmarshals tool parameters. Absent params decode to zero
// values; the handlers tolerate missing fields themselves.
func decodeParams(raw json.RawMessage, out any) *rpc.Error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return rpc.NewError(rpc.CodeInvalidParams, fmt.Sprintf("Invalid parameters: %v", err))
	}
	return nil
}
