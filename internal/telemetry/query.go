package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Insert appends one sample row, stamped with the server-observed
// received_at time.
func (s *Store) Insert(ctx context.Context, sampleTime time.Time, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telemetry: failed to marshal payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO samples (id, sample_time, received_at, payload) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), sampleTime, time.Now().UTC(), body,
	)
	if err != nil {
		return fmt.Errorf("telemetry: failed to insert sample: %w", err)
	}
	return nil
}

// Query returns every sample with sample_time in [from, to], ordered
// ascending.
func (s *Store) Query(ctx context.Context, from, to time.Time) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sample_time, received_at, payload FROM samples
		 WHERE sample_time >= $1 AND sample_time <= $2
		 ORDER BY sample_time ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to query samples: %w", err)
	}
	defer rows.Close()

	samples := make([]Sample, 0)
	for rows.Next() {
		var (
			sample      Sample
			payloadJSON []byte
		)
		if err := rows.Scan(&sample.ID, &sample.SampleTime, &sample.ReceivedAt, &payloadJSON); err != nil {
			return nil, fmt.Errorf("telemetry: failed to scan sample row: %w", err)
		}
		if err := json.Unmarshal(payloadJSON, &sample.Payload); err != nil {
			return nil, fmt.Errorf("telemetry: failed to unmarshal payload: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("telemetry: failed iterating sample rows: %w", err)
	}
	return samples, nil
}
