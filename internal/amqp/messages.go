package amqp

import (
	"encoding/json"
	"time"
)

// InvoiceRunMessage asks the worker to run invoice generation for one
// collaborator. Year/Month select the billed month; zero values mean
// "the month current at consumption time".
type InvoiceRunMessage struct {
	CollaboratorID int64     `json:"collaborator_id"`
	Year           int       `json:"year,omitempty"`
	Month          int       `json:"month,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewInvoiceRunMessage creates a run request for the given collaborator
// and billed month.
func NewInvoiceRunMessage(collaboratorID int64, year, month int) *InvoiceRunMessage {
	return &InvoiceRunMessage{
		CollaboratorID: collaboratorID,
		Year:           year,
		Month:          month,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvoiceRunMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvoiceRunMessageFromJSON creates a message from JSON bytes
func InvoiceRunMessageFromJSON(data []byte) (*InvoiceRunMessage, error) {
	var msg InvoiceRunMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
