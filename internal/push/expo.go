package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mealcall-app-go/pkg/logger"
)

const (
	// DefaultEndpoint is Expo's push API. Override in tests.
	DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

	// Expo caps a single request at 100 messages.
	maxBatchSize = 100
)

// ExpoClient delivers notifications through the Expo push service. It
// implements notification.Sender.
type ExpoClient struct {
	endpoint string
	http     *http.Client
	log      logger.Logger
}

func NewExpoClient(endpoint string, log logger.Logger) *ExpoClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &ExpoClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

type expoMessage struct {
	To       []string          `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound"`
	Priority string            `json:"priority"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// Send pushes one notification to every valid Expo token in the list.
// Tokens from other providers are dropped up front; an empty remainder
// is a no-op.
func (c *ExpoClient) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	valid := filterExpoTokens(tokens)
	if dropped := len(tokens) - len(valid); dropped > 0 {
		c.log.Warn("skipping non-expo push tokens", "dropped", dropped)
	}
	if len(valid) == 0 {
		return nil
	}

	for start := 0; start < len(valid); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(valid) {
			end = len(valid)
		}
		if err := c.sendBatch(ctx, valid[start:end], title, body, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *ExpoClient) sendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	payload, err := json.Marshal(expoMessage{
		To:       tokens,
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Priority: "high",
	})
	if err != nil {
		return fmt.Errorf("marshal expo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build expo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call expo push API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read expo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push API returned %d: %s", resp.StatusCode, raw)
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode expo response: %w", err)
	}
	for i, ticket := range parsed.Data {
		if ticket.Status == "error" {
			// Bad tickets affect single devices; the batch still counts
			// as delivered.
			c.log.Warn("expo push ticket rejected",
				"index", i,
				"error", ticket.Details.Error,
				"message", ticket.Message,
			)
		}
	}
	return nil
}

func filterExpoTokens(tokens []string) []string {
	valid := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "ExponentPushToken[") || strings.HasPrefix(tok, "ExpoPushToken[") {
			valid = append(valid, tok)
		}
	}
	return valid
}
