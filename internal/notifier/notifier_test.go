package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleRendererPrefixes(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewConsoleRenderer(&buf)

	renderer.Render(models.NewInfoNotification("starting"))
	renderer.Render(models.NewSuccessNotification("done"))
	renderer.Render(models.NewErrorNotification("broke"))

	out := buf.String()
	assert.Contains(t, out, "[INFO] starting")
	assert.Contains(t, out, "[OK] done")
	assert.Contains(t, out, "[ERROR] broke")
}

func TestEmbedBuilder(t *testing.T) {
	ts := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	embed := NewDiscordEmbedBuilder().
		WithTitle("Rescan Completed").
		WithDescription("all good").
		WithColor(ColorSuccess).
		WithTimestamp(ts).
		WithFooter("AutoAudit Agent").
		AddField("URL", "https://dealer.example", false).
		Build()

	assert.Equal(t, "Rescan Completed", embed.Title)
	assert.Equal(t, ColorSuccess, embed.Color)
	assert.Equal(t, "2026-08-29T10:00:00Z", embed.Timestamp)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "AutoAudit Agent", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "URL", embed.Fields[0].Name)
}

func webhookRecorder(t *testing.T, payloads *[]DiscordMessagePayload) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload DiscordMessagePayload
		require.NoError(t, json.Unmarshal(body, &payload))
		*payloads = append(*payloads, payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server
}

func testURL() models.MonitoredURL {
	return models.MonitoredURL{ID: 7, URL: "https://dealer.example/vdp", URLType: models.URLTypeVDP}
}

func TestNotifyRoutesSuccessToWebhook(t *testing.T) {
	var payloads []DiscordMessagePayload
	server := webhookRecorder(t, &payloads)

	cfg := config.NewDefaultNotificationConfig()
	cfg.RescanServiceDiscordWebhook = server.URL
	helper := NewNotificationHelper(NewDiscordNotifier(zerolog.Nop(), server.Client()), nil, cfg, zerolog.Nop())

	helper.Notify(context.Background(), testURL(), []models.Notification{
		models.NewInfoNotification("scanning"),
		models.NewSuccessNotification("Rescan complete"),
	})

	// Info notifications are console-only.
	require.Len(t, payloads, 1)
	require.Len(t, payloads[0].Embeds, 1)
	assert.Equal(t, "Rescan Completed", payloads[0].Embeds[0].Title)
	assert.Equal(t, "https://dealer.example/vdp", payloads[0].Embeds[0].URL, "the embed title links to the rescanned page")
	assert.Equal(t, ColorSuccess, payloads[0].Embeds[0].Color)
	assert.Equal(t, "Rescan complete", payloads[0].Embeds[0].Description)
}

func TestNotifySuppressedByConfig(t *testing.T) {
	var payloads []DiscordMessagePayload
	server := webhookRecorder(t, &payloads)

	cfg := config.NewDefaultNotificationConfig()
	cfg.RescanServiceDiscordWebhook = server.URL
	cfg.NotifyOnSuccess = false
	helper := NewNotificationHelper(NewDiscordNotifier(zerolog.Nop(), server.Client()), nil, cfg, zerolog.Nop())

	helper.Notify(context.Background(), testURL(), []models.Notification{
		models.NewSuccessNotification("Rescan complete"),
	})
	assert.Empty(t, payloads)
}

func TestNotifyFailureMentionsRoles(t *testing.T) {
	var payloads []DiscordMessagePayload
	server := webhookRecorder(t, &payloads)

	cfg := config.NewDefaultNotificationConfig()
	cfg.RescanServiceDiscordWebhook = server.URL
	cfg.MentionRoleIDs = []string{"123", "456"}
	helper := NewNotificationHelper(NewDiscordNotifier(zerolog.Nop(), server.Client()), nil, cfg, zerolog.Nop())

	helper.Notify(context.Background(), testURL(), []models.Notification{
		models.NewErrorNotification("Rescan failed. Please try again."),
	})

	require.Len(t, payloads, 1)
	assert.Equal(t, "<@&123> <@&456>", payloads[0].Content)
	assert.Equal(t, ColorError, payloads[0].Embeds[0].Color)

	// Without an explicit whitelist Discord suppresses role pings in webhook
	// messages.
	require.NotNil(t, payloads[0].AllowedMentions)
	assert.Equal(t, []string{"123", "456"}, payloads[0].AllowedMentions.Roles)
}

func TestNotifyCycleSummary(t *testing.T) {
	var payloads []DiscordMessagePayload
	server := webhookRecorder(t, &payloads)

	cfg := config.NewDefaultNotificationConfig()
	cfg.CycleSummaryDiscordWebhook = server.URL
	helper := NewNotificationHelper(NewDiscordNotifier(zerolog.Nop(), server.Client()), nil, cfg, zerolog.Nop())

	start := time.Now().Add(-2 * time.Minute)
	helper.NotifyCycleSummary(context.Background(), CycleSummary{
		CycleID:        3,
		StartTime:      start,
		EndTime:        time.Now(),
		URLsConsidered: 12,
		URLsRescanned:  5,
		Failures:       0,
	})

	require.Len(t, payloads, 1)
	embed := payloads[0].Embeds[0]
	assert.Equal(t, "Rescan Cycle Completed", embed.Title)
	assert.Equal(t, ColorSuccess, embed.Color)
}

func TestDiscordNotifierRejectsEmptyWebhook(t *testing.T) {
	dn := NewDiscordNotifier(zerolog.Nop(), http.DefaultClient)
	err := dn.SendNotification(context.Background(), "", DiscordMessagePayload{})
	assert.Error(t, err)
}

func TestDiscordNotifierSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	dn := NewDiscordNotifier(zerolog.Nop(), server.Client())
	err := dn.SendNotification(context.Background(), server.URL, DiscordMessagePayload{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
