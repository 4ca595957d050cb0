package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingAlerter struct {
	msgs []string
}

func (r *recordingAlerter) SendAlert(msg string) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func TestTelegramHandler_AlertsOnErrorOnly(t *testing.T) {
	var buf bytes.Buffer
	alerts := &recordingAlerter{}
	l := slog.New(&TelegramHandler{
		Handler: slog.NewJSONHandler(&buf, nil),
		tg:      alerts,
	}).With("request_id", "r1")

	l.Info("fine")
	l.Warn("hmm")
	l.Error("credit update failed")

	assert.Equal(t, []string{"credit update failed"}, alerts.msgs)
	assert.Contains(t, buf.String(), `"request_id":"r1"`)
}

func TestContextLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
