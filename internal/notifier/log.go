package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/julianstephens/remindme/internal/logger"
)

// LogSink records notifications in the log and, when out is set, prints them.
type LogSink struct {
	out io.Writer
}

func NewLogSink(out io.Writer) *LogSink {
	return &LogSink{out: out}
}

func (s *LogSink) Deliver(_ context.Context, n Notification) error {
	logger.Info("Reminder notification", "id", n.ID, "title", n.Title, "at", n.At)
	if s.out != nil {
		if _, err := fmt.Fprintf(s.out, "🔔 %s  %s\n   %s\n", n.At.Format("2006-01-02 15:04"), n.Title, n.Body); err != nil {
			return err
		}
	}
	return nil
}
