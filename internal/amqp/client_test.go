package amqp

import (
	"testing"
	"time"
)

func TestInvoiceRunMessageRoundTrip(t *testing.T) {
	msg := NewInvoiceRunMessage(42, 2026, 9)
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := InvoiceRunMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.CollaboratorID != 42 || decoded.Year != 2026 || decoded.Month != 9 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp drifted: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestInvoiceRunMessageDefaultsToCurrentMonth(t *testing.T) {
	// Year/Month zero means the consumer resolves "now".
	msg := NewInvoiceRunMessage(7, 0, 0)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := InvoiceRunMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Year != 0 || decoded.Month != 0 {
		t.Fatalf("zero month must survive the round trip: %+v", decoded)
	}
}

func TestInvoiceRunMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := InvoiceRunMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
