package email

import (
	"context"
	"time"
)

const defaultSendTimeout = 30 * time.Second

func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return context.WithTimeout(parent, timeout)
}

// Deliver sends msg to recipient with a per-message timeout. An empty from
// uses the sender's default address.
func Deliver(ctx context.Context, sender EmailSender, recipient string, msg Message, from string, timeout time.Duration) error {
	sendCtx, cancel := newEmailContext(ctx, timeout)
	defer cancel()

	if from == "" {
		return sender.Send(sendCtx, recipient, msg.Subject, msg.Body)
	}
	return sender.SendFrom(sendCtx, recipient, msg.Subject, msg.Body, from)
}
