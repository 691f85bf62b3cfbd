// Package jsonrpc holds the JSON-RPC 2.0 envelope types used on the
// wire by the Personas MCP server's tool-call endpoint.
package jsonrpc

// Version is the protocol marker sent with every request.
const Version = "2.0"

// MethodToolsCall is the only method this client ever invokes.
const MethodToolsCall = "tools/call"

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
	ID      int64  `json:"id"`
}

type Params struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// NewRequest builds a tools/call envelope for the named tool.
func NewRequest(id int64, tool string, arguments map[string]interface{}) Request {
	return Request{
		JSONRPC: Version,
		Method:  MethodToolsCall,
		Params: Params{
			Name:      tool,
			Arguments: arguments,
		},
		ID: id,
	}
}

// Response is the server's reply. Exactly one of Result or Error is
// expected to be set; the client checks Error first.
type Response struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      int64                  `json:"id"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   *ErrorObject           `json:"error,omitempty"`
}

type ErrorObject struct {
	// The error type that occurred.
	Code int `json:"code"`
	// A short description of the error. The message SHOULD be limited
	// to a concise single sentence.
	Message string `json:"message"`
	// Additional information about the error. The value of this member
	// is defined by the sender (e.g. detailed error information, nested errors etc.).
	Data interface{} `json:"data,omitempty"`
}
