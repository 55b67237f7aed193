package tracker

import (
	"context"
	"log"
)

// NoticeLevel classifies an outcome message.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a human-readable outcome of an operation.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier receives outcome messages out of band. It never affects the
// result of the operation that emitted the notice.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NopNotifier discards every notice.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notice) {}

// LogNotifier writes notices through a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ context.Context, notice Notice) {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("notice [%s]: %s", notice.Level, notice.Message)
}
