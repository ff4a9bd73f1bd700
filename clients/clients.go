package clients

import (
	"examwatch/clients/alertsapi"
	"examwatch/clients/discord"
	"examwatch/clients/notifier"
	"examwatch/clients/telegram"
	"examwatch/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Alerts   *alertsapi.AlertsApiClient
	Discord  *discord.DiscordClient
	Telegram *telegram.TelegramClient
	Notifier *notifier.MultiNotifier // Combined notifier for the enabled channels
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	discordClient := discord.NewDiscordClient(logger, cfg)
	telegramClient := telegram.NewTelegramClient(logger, cfg)

	// Only configured channels join the combined notifier
	var active []notifier.Notifier
	if discordClient.Enabled() {
		active = append(active, discordClient)
	}
	if telegramClient.Enabled() {
		active = append(active, telegramClient)
	}
	multiNotifier := notifier.NewMultiNotifier(active...)

	return &Clients{
		Logger:   logger,
		Alerts:   alertsapi.NewAlertsApiClient(logger, cfg),
		Discord:  discordClient,
		Telegram: telegramClient,
		Notifier: multiNotifier,
	}
}

// Close releases notifier resources.
func (c *Clients) Close() error {
	if c.Notifier == nil {
		return nil
	}
	return c.Notifier.Close()
}
