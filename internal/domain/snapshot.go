package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutputEvent is a serialized snapshot destined for the snapshot topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeSnapshot encodes a division's aggregated data as an OutputEvent
// keyed by division. The value is the same JSON the HTTP API serves; the
// generation time and batch ID travel in headers so the payload stays
// byte-identical to an API response.
func SerializeSnapshot(d Division, data DivisionData, batchID string) (OutputEvent, error) {
	value, err := json.Marshal(data)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize snapshot %s: %w", d, err)
	}
	return OutputEvent{
		Key:   []byte(d),
		Value: value,
		Headers: map[string]string{
			"division":     string(d),
			"generated_at": clock.Now().UTC().Format(time.RFC3339),
			"batch_id":     batchID,
		},
	}, nil
}
