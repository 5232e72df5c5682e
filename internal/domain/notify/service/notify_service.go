package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"destiny_billing/pkg/logger"

	"go.uber.org/zap"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Alert is a usage threshold notification from the monitoring side.
type Alert struct {
	AlertType      string  `json:"alert_type"`
	ThresholdValue float64 `json:"threshold_value"`
	CurrentValue   float64 `json:"current_value"`
	Message        string  `json:"message"`
}

// Result reports which channels a dispatch reached.
type Result struct {
	Telegram bool `json:"telegram"`
	Webhook  bool `json:"webhook"`
	// Logged is set when no channel is configured and the alert only went
	// to the log.
	Logged bool `json:"-"`
}

// Dispatcher fans a usage alert out to the configured chat-ops channels.
// Channels are attempted independently; one channel's failure never blocks
// the other, and a dispatch with no configured channel still succeeds.
type Dispatcher interface {
	Send(ctx context.Context, alert Alert) Result
}

type dispatcher struct {
	httpClient       *http.Client
	telegramBotToken string
	telegramChatID   string
	webhookURL       string
	telegramAPI      string
	now              func() time.Time
}

// NewDispatcher builds a dispatcher. Empty credentials disable the matching
// channel; telegramAPI overrides the bot API host for tests.
func NewDispatcher(httpClient *http.Client, telegramBotToken, telegramChatID, webhookURL, telegramAPI string) Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if telegramAPI == "" {
		telegramAPI = defaultTelegramAPI
	}
	return &dispatcher{
		httpClient:       httpClient,
		telegramBotToken: telegramBotToken,
		telegramChatID:   telegramChatID,
		webhookURL:       webhookURL,
		telegramAPI:      telegramAPI,
		now:              time.Now,
	}
}

func (d *dispatcher) Send(ctx context.Context, alert Alert) Result {
	var result Result

	telegramConfigured := d.telegramBotToken != "" && d.telegramChatID != ""

	if telegramConfigured {
		if err := d.sendTelegram(ctx, alert); err != nil {
			logger.L().Error("telegram alert failed", zap.Error(err))
		} else {
			result.Telegram = true
		}
	}

	if d.webhookURL != "" {
		if err := d.sendWebhook(ctx, alert); err != nil {
			logger.L().Error("webhook alert failed", zap.Error(err))
		} else {
			result.Webhook = true
		}
	}

	if !telegramConfigured && d.webhookURL == "" {
		logger.L().Info("usage alert (no notification channel configured)",
			zap.String("alert_type", alert.AlertType),
			zap.Float64("threshold", alert.ThresholdValue),
			zap.Float64("current", alert.CurrentValue),
			zap.String("message", alert.Message),
		)
		result.Logged = true
	}

	return result
}

func (d *dispatcher) sendTelegram(ctx context.Context, alert Alert) error {
	payload := map[string]string{
		"chat_id":    d.telegramChatID,
		"text":       d.telegramText(alert),
		"parse_mode": "HTML",
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", d.telegramAPI, d.telegramBotToken)
	return d.post(ctx, url, payload)
}

func (d *dispatcher) sendWebhook(ctx context.Context, alert Alert) error {
	var payload interface{}
	if strings.Contains(d.webhookURL, "discord.com") {
		payload = d.discordPayload(alert)
	} else {
		payload = d.slackPayload(alert)
	}
	return d.post(ctx, d.webhookURL, payload)
}

func (d *dispatcher) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: unexpected status %s", resp.Status)
	}
	return nil
}

func (d *dispatcher) title(alert Alert) (emoji, title string) {
	if alert.AlertType == "threshold_reached" {
		return "🚨", "서비스 한도 도달!"
	}
	return "⚠️", "사용량 경고"
}

func (d *dispatcher) percentage(alert Alert) int {
	if alert.ThresholdValue == 0 {
		return 0
	}
	return int(math.Round(alert.CurrentValue / alert.ThresholdValue * 100))
}

// telegramText renders the plain-text (HTML parse mode) representation.
func (d *dispatcher) telegramText(alert Alert) string {
	emoji, title := d.title(alert)

	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.UTC
	}

	return fmt.Sprintf(`%s <b>Destiny.OS %s</b>

%s

📊 <b>현재 사용량:</b> %.0f회
📈 <b>한도:</b> %.0f회
⚡ <b>사용률:</b> %d%%

🕐 %s`,
		emoji, title,
		alert.Message,
		alert.CurrentValue,
		alert.ThresholdValue,
		d.percentage(alert),
		d.now().In(loc).Format("2006-01-02 15:04:05"),
	)
}

// discordPayload renders the Discord embed representation.
func (d *dispatcher) discordPayload(alert Alert) map[string]interface{} {
	emoji, title := d.title(alert)

	color := 0xffa500
	if alert.AlertType == "threshold_reached" {
		color = 0xff0000
	}

	return map[string]interface{}{
		"embeds": []map[string]interface{}{
			{
				"title":       fmt.Sprintf("%s Destiny.OS %s", emoji, title),
				"description": alert.Message,
				"color":       color,
				"fields": []map[string]interface{}{
					{"name": "현재 사용량", "value": fmt.Sprintf("%.0f회", alert.CurrentValue), "inline": true},
					{"name": "한도", "value": fmt.Sprintf("%.0f회", alert.ThresholdValue), "inline": true},
					{"name": "사용률", "value": fmt.Sprintf("%d%%", d.percentage(alert)), "inline": true},
				},
				"timestamp": d.now().UTC().Format(time.RFC3339),
				"footer":    map[string]string{"text": "Destiny.OS Usage Monitor"},
			},
		},
	}
}

// slackPayload renders the Slack Block Kit representation.
func (d *dispatcher) slackPayload(alert Alert) map[string]interface{} {
	emoji, title := d.title(alert)

	return map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]interface{}{
					"type": "plain_text",
					"text": fmt.Sprintf("%s Destiny.OS %s", emoji, title),
				},
			},
			{
				"type": "section",
				"text": map[string]interface{}{
					"type": "mrkdwn",
					"text": alert.Message,
				},
			},
			{
				"type": "section",
				"fields": []map[string]interface{}{
					{"type": "mrkdwn", "text": fmt.Sprintf("*현재 사용량:*\n%.0f회", alert.CurrentValue)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*한도:*\n%.0f회", alert.ThresholdValue)},
				},
			},
		},
	}
}
