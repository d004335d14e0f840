package console

import (
	"github.com/sirupsen/logrus"
)

// Hook feeds every logrus entry into a Ring.
type Hook struct {
	ring *Ring
}

// NewHook wraps ring as a logrus hook. Attach it with logger.AddHook.
func NewHook(ring *Ring) *Hook {
	return &Hook{ring: ring}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(entry *logrus.Entry) error {
	h.ring.Append(Record{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
	})
	return nil
}
