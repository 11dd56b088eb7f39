// Package notify delivers plain-text status messages about a tailoring run.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Notifier delivers a single status message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// FileSender is a Notifier that can deliver a file together with the message.
type FileSender interface {
	SendFile(ctx context.Context, text, path string) error
}

// Multi sends every message to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendFile attaches path on channels that support files and sends text alone on the rest.
func (m Multi) SendFile(ctx context.Context, text, path string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := sendFile(ctx, n, text, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sendFile(ctx context.Context, n Notifier, text, path string) error {
	if fs, ok := n.(FileSender); ok && path != "" {
		return fs.SendFile(ctx, text, path)
	}
	return n.Send(ctx, text)
}

// Log writes messages to the logger. It is used when no other channel is configured.
type Log struct {
	Logger *zap.Logger
}

func (l *Log) Send(_ context.Context, text string) error {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("notification", zap.String("text", text))
	return nil
}

// Best sends text and only logs a delivery failure, so notifications never stop a run.
func Best(ctx context.Context, n Notifier, logger *zap.Logger, text string) {
	if n == nil {
		return
	}
	if err := n.Send(ctx, text); err != nil && logger != nil {
		logger.Warn("notification delivery failed", zap.Error(err))
	}
}

// BestFile is Best for a message with an attached file.
func BestFile(ctx context.Context, n Notifier, logger *zap.Logger, text, path string) {
	if n == nil {
		return
	}
	if err := sendFile(ctx, n, text, path); err != nil && logger != nil {
		logger.Warn("notification delivery failed", zap.String("attachment", path), zap.Error(err))
	}
}
