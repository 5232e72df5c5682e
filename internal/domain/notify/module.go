package notify

import (
	"destiny_billing/internal/domain/notify/handler"
	"destiny_billing/internal/domain/notify/service"
	"destiny_billing/internal/pkg/registry"
)

// NotifyModule wires the usage alert fan-out endpoint.
type NotifyModule struct{}

func init() {
	registry.Register(&NotifyModule{})
}

func (m *NotifyModule) Name() string {
	return "notify"
}

func (m *NotifyModule) Priority() int {
	return 40
}

func (m *NotifyModule) Init(ctx *registry.ModuleContext) error {
	cfg := ctx.Cfg.Notify
	d := service.NewDispatcher(nil, cfg.TelegramBotToken, cfg.TelegramChatID, cfg.WebhookURL, "")
	h := handler.NewNotifyHandler(d)

	ctx.Router.POST("/notify-usage", h.NotifyUsage)

	return nil
}
