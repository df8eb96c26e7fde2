package messages

import (
	"encoding/json"

	"github.com/mini-maxit/modelboard/pkg/models"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

// EvaluateQueueMessage is the payload of an evaluate request.
type EvaluateQueueMessage struct {
	Source string `json:"source"`
}

// EvaluateResponsePayload is the payload of a successful evaluate reply.
type EvaluateResponsePayload struct {
	Metrics models.Metrics `json:"metrics"`
}

// ErrorResponsePayload is the payload of a failed reply. Code is one of the
// constants.EvaluationError* kinds.
type ErrorResponsePayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
