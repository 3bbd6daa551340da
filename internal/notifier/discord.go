package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aleister1102/autoaudit/internal/common"

	"github.com/rs/zerolog"
)

// DiscordNotifier delivers notification payloads to Discord webhooks.
type DiscordNotifier struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a DiscordNotifier with the given HTTP client.
func NewDiscordNotifier(logger zerolog.Logger, httpClient *http.Client) *DiscordNotifier {
	return &DiscordNotifier{
		httpClient: httpClient,
		logger:     logger.With().Str("module", "DiscordNotifier").Logger(),
	}
}

// SendNotification posts the payload to the webhook URL as JSON.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, webhookURL string, payload DiscordMessagePayload) error {
	if webhookURL == "" {
		return common.NewError("webhook URL is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(err, "failed to marshal Discord payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return common.WrapError(err, "failed to create Discord request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return common.WrapError(err, "failed to send Discord notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		dn.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("Discord webhook returned non-2xx status")
		return common.NewError("discord webhook returned status %d", resp.StatusCode)
	}

	dn.logger.Debug().Int("status_code", resp.StatusCode).Msg("Discord notification sent")
	return nil
}
