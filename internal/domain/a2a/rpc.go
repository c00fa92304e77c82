package a2a

import "encoding/json"

// ProtocolVersion is the fixed version string on every envelope.
const ProtocolVersion = "2.0"

// RPC method names.
const (
	MethodTasksSend   = "tasks/send"
	MethodTasksGet    = "tasks/get"
	MethodTasksCancel = "tasks/cancel"
)

// RPC error codes. CodeInternal carries the original failure text in
// the error's Data field.
const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeInternal       = -32603
	CodeTaskExists     = -32010
)

// Request is the JSON-RPC request envelope.
type Request struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Method          string          `json:"method"`
	Params          json.RawMessage `json:"params"`
	ID              string          `json:"id,omitempty"`
}

// Response is the JSON-RPC response envelope. Exactly one of Result and
// Error is populated.
type Response struct {
	ProtocolVersion string    `json:"protocolVersion"`
	ID              string    `json:"id,omitempty"`
	Result          any       `json:"result,omitempty"`
	Error           *RPCError `json:"error,omitempty"`
}

// RPCError is the error object of a failed RPC call.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// SendParams are the parameters of tasks/send.
type SendParams struct {
	ID      string  `json:"id"`
	Message Message `json:"message"`
}

// GetParams are the parameters of tasks/get.
type GetParams struct {
	ID string `json:"id"`
}

// CancelParams are the parameters of tasks/cancel.
type CancelParams struct {
	ID string `json:"id"`
}
