package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
)

// maxErrorBody bounds how much of an error response ends up in the message.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure. Non-200
// responses become an APIError carrying the status code.
func (c *Client) DecodeResponse(resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("service", c.service).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		apiErr := errors.NewAPIError(c.service, resp.StatusCode, msg)
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Host + resp.Request.URL.Path
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
