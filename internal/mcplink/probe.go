package mcplink

import (
	"context"
	"net/http"
	"time"
)

// Probe reports whether anything is answering HTTP at url. Any response
// counts, including 4xx/5xx: the MCP endpoint rejects bare HEAD and GET, but
// an answer means the server is up. Connection refusal does not count.
func Probe(ctx context.Context, url string, headers map[string]string) bool {
	client := &http.Client{Timeout: 2 * time.Second}

	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return false
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		return true
	}
	return false
}
