package personas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/personactl/personactl/internal/jsonrpc"
)

// Tool names exposed by the Personas server. Opaque to this client;
// each one's argument schema is forwarded unmodified.
const (
	ToolRecommendPersona = "recommend-persona"
	ToolExplainFit       = "explain-persona-fit"
	ToolComparePersonas  = "compare-personas"
	ToolStats            = "get-recommendation-stats"
)

// CallTool invokes a named tool through a JSON-RPC tools/call
// envelope. It returns the response's result mapping, an empty map
// when the server sent none.
//
// The request-id counter advances exactly once per call, whether the
// call succeeds or fails. Failures are *TransportError for anything
// wire-level and *RemoteError when the response body carries an error
// member.
func (c *Client) CallTool(ctx context.Context, tool string, arguments map[string]interface{}) (map[string]interface{}, error) {
	req := jsonrpc.NewRequest(c.nextRequestID(), tool, arguments)

	if c.screener != nil {
		if err := c.screener.Screen(tool, arguments); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	c.logger.Debug("calling tool", "tool", tool, "id", req.ID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mcpURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.clientID != "" {
		httpReq.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: jsonrpc.MethodToolsCall, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: jsonrpc.MethodToolsCall, StatusCode: resp.StatusCode}
	}

	var rpcResp jsonrpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, &TransportError{Op: jsonrpc.MethodToolsCall, StatusCode: resp.StatusCode, Err: err}
	}

	if rpcResp.Error != nil {
		msg := rpcResp.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &RemoteError{Code: rpcResp.Error.Code, Message: msg}
	}

	if rpcResp.Result == nil {
		return map[string]interface{}{}, nil
	}
	return rpcResp.Result, nil
}
