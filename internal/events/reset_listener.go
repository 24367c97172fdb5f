package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Resetter starts a fresh order on the terminal.
type Resetter interface {
	Reset()
}

// ResetListener consumes reset messages and resets the order of its own terminal.
type ResetListener struct {
	terminalID string
	reader     messageReader
	resetter   Resetter
	log        *zap.Logger
	retryDelay time.Duration
}

func NewResetListener(terminalID, topic string, resetter Resetter, log *zap.Logger, brokers ...string) *ResetListener {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "pos-terminal-" + terminalID,
		MaxBytes: 10e6, // 10MB
	})
	return &ResetListener{terminalID: terminalID, reader: reader, resetter: resetter, log: log, retryDelay: time.Second}
}

// Run blocks until ctx is done or the reader is closed.
func (l *ResetListener) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := l.handleNext(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *ResetListener) Close() {
	if err := l.reader.Close(); err != nil {
		l.log.Warn("error closing reset reader", zap.Error(err))
	}
}

// handleNext returns only read errors; bad messages are logged and skipped.
func (l *ResetListener) handleNext(ctx context.Context) error {
	m, err := l.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.log.Error("error reading reset message", zap.Error(err))
		}
		return err
	}

	var msg ResetMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		l.log.Warn("skipping malformed reset message", zap.Error(err), zap.Int64("offset", m.Offset))
		return nil
	}
	if msg.TerminalID != l.terminalID {
		l.log.Debug("skipping reset for another terminal", zap.String("terminal_id", msg.TerminalID))
		return nil
	}

	l.log.Info("resetting order", zap.String("order_id", msg.OrderID))
	l.resetter.Reset()
	return nil
}
