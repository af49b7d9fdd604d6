package notify

import (
	"log"

	"totocalcio/internal/events"
)

// LogSink writes every event to the standard logger.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Handle(e events.Event) {
	if e.Type == events.ErrorOccurred {
		s.logger.Printf("[Events] ERROR tournament=%d round=%d: %s", e.TournamentID, e.RoundNumber, e.Message)
		return
	}
	s.logger.Printf("[Events] %s tournament=%d round=%d: %s", e.Type, e.TournamentID, e.RoundNumber, e.Message)
}
