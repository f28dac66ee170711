package api

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/glossary-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/glossary-core/internal/term"
)

// Term change channels. WebSocket clients subscribe to these names; the
// MQTT topic uses the suffix after "term.".
const (
	EventTermCreated = "term.created"
	EventTermUpdated = "term.updated"
	EventTermDeleted = "term.deleted"
)

// eventActions maps a channel to its MQTT topic action.
var eventActions = map[string]string{
	EventTermCreated: "created",
	EventTermUpdated: "updated",
	EventTermDeleted: "deleted",
}

// TermEvent is the payload of a term change event. Term is omitted for
// deletions.
type TermEvent struct {
	ID        int64      `json:"id"`
	Term      *term.Term `json:"term,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// publishTermEvent fans a committed change out to WebSocket subscribers and,
// when configured, to MQTT. MQTT delivery runs in its own goroutine so a slow
// broker never holds up the HTTP response.
func (s *Server) publishTermEvent(event string, id int64, t *term.Term) {
	payload := TermEvent{
		ID:        id,
		Term:      t,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	s.hub.Broadcast(event, payload)

	if s.events == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal term event", "event", event, "error", err)
		return
	}

	topic := mqtt.Topics{}.TermEvent(id, eventActions[event])
	go func() {
		if err := s.events.PublishEvent(topic, data); err != nil {
			s.logger.Warn("publishing term event failed",
				"topic", topic,
				"error", err,
			)
		}
	}()
}
