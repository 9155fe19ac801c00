package interfaces

import (
	"context"

	"pickbot/internal/types"
)

type Publisher interface {
	// Publish sends text to a chat id or @channel username
	Publish(ctx context.Context, channelID, text string, format types.Format) error
}
