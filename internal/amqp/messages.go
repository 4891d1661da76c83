package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"pulse/internal/core"
)

// ImportCompletedMessage announces a finished import. It only carries ids;
// consumers load the transactions themselves.
type ImportCompletedMessage struct {
	ImportID  string            `json:"import_id"`
	OwnerID   string            `json:"owner_id"`
	Source    core.ImportSource `json:"source"`
	Inserted  int               `json:"inserted"`
	Timestamp time.Time         `json:"timestamp"`
}

var ErrMissingImportID = errors.New("message has no import_id")

func NewImportCompletedMessage(rec core.ImportRecord) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		ImportID:  rec.ID,
		OwnerID:   rec.OwnerID,
		Source:    rec.Source,
		Inserted:  rec.Inserted,
		Timestamp: time.Now(),
	}
}

func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportCompletedMessageFromJSON decodes and validates a message body.
func ImportCompletedMessageFromJSON(data []byte) (*ImportCompletedMessage, error) {
	var msg ImportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ImportID == "" {
		return nil, ErrMissingImportID
	}
	return &msg, nil
}
