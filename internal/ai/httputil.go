package ai

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/internscout/internal/model"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func httpError(resp *http.Response, body []byte) *model.HTTPError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        fmt.Errorf("llm returned: %s", string(body)),
	}
}
