// Package ultramsg sends WhatsApp texts through the Ultramsg HTTP API.
package ultramsg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

const requestTimeout = 30 * time.Second

type Client struct {
	log        *slog.Logger
	http       *http.Client
	baseURL    string
	instanceID string
	token      string
}

func NewClient(log *slog.Logger, baseURL, instanceID, token string) *Client {
	return &Client{
		log:        log,
		http:       &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		instanceID: instanceID,
		token:      token,
	}
}

func (c *Client) Send(ctx context.Context, to, body string) (map[string]any, error) {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("to", NormalizePhone(to))
	form.Set("body", body)

	endpoint := fmt.Sprintf("%s/%s/messages/chat", c.baseURL, c.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.External("ultramsg", "message delivery failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.External("ultramsg", "message delivery failed", err)
	}

	decoded := map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		decoded = map[string]any{"raw": string(raw)}
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("ultramsg rejected message", "status", resp.StatusCode, "body", string(raw))
		return decoded, apperr.External("ultramsg", "message delivery failed",
			fmt.Errorf("status %d", resp.StatusCode))
	}
	return decoded, nil
}

// NormalizePhone strips everything but digits and ensures a leading +.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return "+" + b.String()
}
