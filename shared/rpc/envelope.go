// Package rpc is the command fabric between the gateway and the services: a
// correlated request/reply protocol over broker queues.
//
// A caller (Dispatcher) publishes an Envelope on the target service's queue
// and waits on its private reply queue for the Reply carrying the same ID.
// A service (Router) consumes its queue, runs the registered handler and
// publishes exactly one Reply to Envelope.ReplyTo.
package rpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
)

// HealthCommand is answered by every router.
const HealthCommand = "health"

// Envelope is a command addressed to one service.
type Envelope struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
	ReplyTo string          `json:"replyTo,omitempty"`
	SentAt  time.Time       `json:"sentAt"`
}

// Reply answers the Envelope with the same ID.
type Reply struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *apperr.Error   `json:"error,omitempty"`
}

// NewID returns a fresh correlation id.
func NewID() string {
	return ulid.Make().String()
}

// NewEnvelope builds an envelope for command with a fresh ID. A nil payload is
// sent without a payload field.
func NewEnvelope(command string, payload any, replyTo string) (Envelope, error) {
	env := Envelope{
		ID:      NewID(),
		Command: command,
		ReplyTo: replyTo,
		SentAt:  time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal %s payload: %w", command, err)
		}
		env.Payload = raw
	}
	return env, nil
}

func success(id string, data any) Reply {
	raw, err := json.Marshal(data)
	if err != nil {
		return failure(id, apperr.Internal(fmt.Errorf("marshal reply: %w", err)))
	}
	return Reply{ID: id, OK: true, Data: raw}
}

func failure(id string, err *apperr.Error) Reply {
	return Reply{ID: id, OK: false, Error: err}
}
