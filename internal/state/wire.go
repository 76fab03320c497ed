package state

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a segment as the tuple [x0, y0, x1, y1, "color"].
// The field order is part of the submission payload and must not change.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]any{s.X0, s.Y0, s.X1, s.Y1, s.Color})
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if len(raw) != 5 {
		return fmt.Errorf("segment: want 5 fields, got %d", len(raw))
	}
	coords := [4]*float64{&s.X0, &s.Y0, &s.X1, &s.Y1}
	for i, dst := range coords {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("segment field %d: %w", i, err)
		}
	}
	if err := json.Unmarshal(raw[4], &s.Color); err != nil {
		return fmt.Errorf("segment color: %w", err)
	}
	return nil
}
