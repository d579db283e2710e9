package notify

import (
	"context"

	"go.uber.org/zap"
)

// logNotifier writes appended records to the structured log, for setups that
// want the audit trail mirrored into log collection without an HTTP hook.
type logNotifier struct {
	id  string
	log *zap.Logger
}

func newLogNotifier(cfg NotifierConfig, log *zap.Logger) (Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return &logNotifier{id: cfg.ID, log: log}, nil
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return TypeLog }

func (l *logNotifier) Notify(_ context.Context, evt Event) error {
	l.log.Info("record appended",
		zap.String("notifier_id", l.id),
		zap.String("target_id", evt.TargetID),
		zap.String("target_name", evt.TargetName),
		zap.String("date", evt.Record.Date),
		zap.String("headline", evt.Record.Headline),
		zap.Time("observed_at", evt.ObservedAt),
	)
	return nil
}
