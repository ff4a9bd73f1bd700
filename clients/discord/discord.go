package discord

import (
	"examwatch/clients/notifier"
	"examwatch/config"
	"examwatch/internal/detection"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient sends alerts to Discord.
// Implements notifier.Notifier interface.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
	isProd    bool
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	channelID := cfg.Discord.BetaChannelID
	if cfg.IsProd {
		channelID = cfg.Discord.ProdChannelID
	}

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord alerts disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	logger.Info("discord bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("channelID", channelID),
	)

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: channelID,
		isProd:    cfg.IsProd,
	}
}

// Enabled reports whether the client has a live session.
func (dc *DiscordClient) Enabled() bool {
	return dc.session != nil && dc.channelID != ""
}

// SendDetectionAlert sends a rich embedded detection alert.
// Implements notifier.Notifier interface.
func (dc *DiscordClient) SendDetectionAlert(alert notifier.DetectionAlert) {
	if dc.session == nil {
		dc.logger.Debug("discord session not initialized, skipping alert")
		return
	}

	embed := dc.buildDetectionEmbed(alert)

	_, err := dc.session.ChannelMessageSendEmbed(dc.channelID, embed)
	if err != nil {
		dc.logger.Error("failed to send discord embed", zap.Error(err))
		return
	}

	dc.logger.Info("sent discord detection alert",
		zap.String("category", string(alert.Category)),
		zap.String("confidence", alert.Percent()),
	)
}

func (dc *DiscordClient) buildDetectionEmbed(alert notifier.DetectionAlert) *discordgo.MessageEmbed {
	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	snapshot := "N/A"
	if alert.SnapshotURL != "" {
		snapshot = fmt.Sprintf("[%s](%s)", alert.SnapshotName, alert.SnapshotURL)
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Confidence",
			Value:  alert.Percent(),
			Inline: true,
		},
		{
			Name:   "Time",
			Value:  detection.FormatTime(ts),
			Inline: true,
		},
		{
			Name:   "Session Total",
			Value:  fmt.Sprintf("%d", alert.SessionTotal),
			Inline: true,
		},
		{
			Name:   "Snapshot",
			Value:  snapshot,
			Inline: false,
		},
	}

	footerText := "examwatch"
	if alert.SessionID != "" {
		footerText = fmt.Sprintf("examwatch * session %s", alert.SessionID)
	}

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s %s", alert.Icon, alert.Label),
		Color:  categoryColor(alert.Category),
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
		Timestamp: ts.Format(time.RFC3339),
	}

	if alert.SnapshotURL != "" {
		embed.URL = alert.SnapshotURL
		embed.Image = &discordgo.MessageEmbedImage{
			URL: alert.SnapshotURL,
		}
	}

	return embed
}

func categoryColor(c detection.Category) int {
	switch c {
	case detection.HandGestures:
		return 0xDC3545
	case detection.MobilePhone:
		return 0x007BFF
	case detection.Talking:
		return 0xFFC107
	default:
		return 0x6C757D
	}
}

// Close closes the Discord session.
func (dc *DiscordClient) Close() error {
	if dc.session != nil {
		return dc.session.Close()
	}
	return nil
}
