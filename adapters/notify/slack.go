package notify

import (
	"context"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"roadmapboard/internal/errors"
	"roadmapboard/ports"
)

// SlackNotifier posts load outcomes to a Slack channel
type SlackNotifier struct {
	client    *slack.Client
	channelID string
	logger    *zap.Logger
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
// Extra client options are passed through to slack.New.
func NewSlackNotifier(token, channelID string, logger *zap.Logger, opts ...slack.Option) ports.Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlackNotifier{
		client:    slack.New(token, opts...),
		channelID: channelID,
		logger:    logger.Named("slack"),
	}
}

// Notify posts the message as plain text
func (n *SlackNotifier) Notify(ctx context.Context, message string) error {
	channel, ts, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return errors.ExternalServiceError("slack", err)
	}
	n.logger.Debug("Posted load notification", zap.String("channel", channel), zap.String("ts", ts))
	return nil
}
