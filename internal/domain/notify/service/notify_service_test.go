package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(d Dispatcher) {
	d.(*dispatcher).now = func() time.Time {
		return time.Date(2026, 3, 15, 3, 0, 0, 0, time.UTC)
	}
}

func TestDispatcher_Send(t *testing.T) {
	alert := Alert{
		AlertType:      "threshold_reached",
		ThresholdValue: 1000,
		CurrentValue:   1000,
		Message:        "일일 API 호출 한도에 도달했습니다.",
	}

	t.Run("telegram channel", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		d := NewDispatcher(srv.Client(), "bot-token", "chat-123", "", srv.URL)
		fixedClock(d)

		result := d.Send(context.Background(), alert)

		assert.True(t, result.Telegram)
		assert.False(t, result.Webhook)
		assert.False(t, result.Logged)
		assert.Equal(t, "/botbot-token/sendMessage", gotPath)
		assert.Equal(t, "chat-123", gotBody["chat_id"])
		assert.Equal(t, "HTML", gotBody["parse_mode"])
		assert.Contains(t, gotBody["text"], "🚨")
		assert.Contains(t, gotBody["text"], "서비스 한도 도달!")
		assert.Contains(t, gotBody["text"], "현재 사용량:</b> 1000회")
		assert.Contains(t, gotBody["text"], "100%")
	})

	t.Run("slack-style webhook channel", func(t *testing.T) {
		var gotBody map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		d := NewDispatcher(srv.Client(), "", "", srv.URL, "")
		fixedClock(d)

		result := d.Send(context.Background(), Alert{
			AlertType:      "usage_warning",
			ThresholdValue: 1000,
			CurrentValue:   800,
			Message:        "사용량이 80%를 넘었습니다.",
		})

		assert.True(t, result.Webhook)
		assert.False(t, result.Telegram)
		blocks, ok := gotBody["blocks"].([]interface{})
		require.True(t, ok)
		require.NotEmpty(t, blocks)
		header := blocks[0].(map[string]interface{})["text"].(map[string]interface{})["text"].(string)
		assert.Contains(t, header, "⚠️")
		assert.Contains(t, header, "사용량 경고")
	})

	t.Run("channel failure is swallowed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		d := NewDispatcher(srv.Client(), "", "", srv.URL, "")
		fixedClock(d)

		result := d.Send(context.Background(), alert)

		assert.False(t, result.Webhook)
		assert.False(t, result.Logged)
	})

	t.Run("channels fail independently", func(t *testing.T) {
		var webhookHit bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/webhook" {
				webhookHit = true
				w.WriteHeader(http.StatusOK)
				return
			}
			// telegram path
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		d := NewDispatcher(srv.Client(), "bot-token", "chat-123", srv.URL+"/webhook", srv.URL)
		fixedClock(d)

		result := d.Send(context.Background(), alert)

		assert.False(t, result.Telegram)
		assert.True(t, result.Webhook)
		assert.True(t, webhookHit)
	})

	t.Run("no channel configured falls back to the log", func(t *testing.T) {
		d := NewDispatcher(nil, "", "", "", "")
		fixedClock(d)

		result := d.Send(context.Background(), alert)

		assert.True(t, result.Logged)
		assert.False(t, result.Telegram)
		assert.False(t, result.Webhook)
	})
}

func TestDispatcher_Payloads(t *testing.T) {
	d := NewDispatcher(nil, "", "", "https://discord.com/api/webhooks/1/x", "").(*dispatcher)
	d.now = func() time.Time { return time.Date(2026, 3, 15, 3, 0, 0, 0, time.UTC) }

	t.Run("discord embed for threshold_reached", func(t *testing.T) {
		payload := d.discordPayload(Alert{
			AlertType:      "threshold_reached",
			ThresholdValue: 1000,
			CurrentValue:   1000,
			Message:        "한도 도달",
		})

		embeds := payload["embeds"].([]map[string]interface{})
		assert.Equal(t, 0xff0000, embeds[0]["color"])
		assert.Contains(t, embeds[0]["title"], "서비스 한도 도달!")
		assert.Equal(t, "2026-03-15T03:00:00Z", embeds[0]["timestamp"])
	})

	t.Run("discord embed for usage_warning", func(t *testing.T) {
		payload := d.discordPayload(Alert{
			AlertType:      "usage_warning",
			ThresholdValue: 1000,
			CurrentValue:   805,
			Message:        "경고",
		})

		embeds := payload["embeds"].([]map[string]interface{})
		assert.Equal(t, 0xffa500, embeds[0]["color"])
		fields := embeds[0]["fields"].([]map[string]interface{})
		assert.Equal(t, "81%", fields[2]["value"])
	})

	t.Run("zero threshold reports 0%", func(t *testing.T) {
		assert.Equal(t, 0, d.percentage(Alert{ThresholdValue: 0, CurrentValue: 500}))
	})
}
