// Package rpc implements the JSON-RPC 2.0 framing used on the agent's
// tool endpoint.
package rpc

import (
	"encoding/json"
	"net/http"
)

// Version is the JSON-RPC protocol version
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request. Params are left raw so each method
// can decode its own parameter shape.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      int             `json:"id"`
}

// Decode parses a request body, applying the JSON-RPC defaults for
// missing fields
func Decode(body []byte) (Request, error) {
	req := Request{JSONRPC: Version, ID: 1}
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Error is a JSON-RPC 2.0 error object
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a JSON-RPC error with the given code and message
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Response is a JSON-RPC 2.0 response. ID is any so a parse failure can
// echo a null id.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id"`
}

// NewResult builds a success response
func NewResult(id int, result any) Response {
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewErrorResponse builds an error response. A nil id serializes as null.
func NewErrorResponse(id any, rpcErr *Error) Response {
	return Response{JSONRPC: Version, Error: rpcErr, ID: id}
}

// Write serializes a response to the wire
func Write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
