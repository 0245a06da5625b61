package snapshot

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time copy of the raw task collection.
type Snapshot struct {
	ID        string          `json:"id"`
	Driver    string          `json:"driver"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func (s *Snapshot) normalize() {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	if len(s.Payload) == 0 {
		s.Payload = json.RawMessage("[]")
	}
}
