// Package db persists the live schedule in a key-value store.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/palette"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// ScheduleKey is the fixed key the live schedule is stored under.
const ScheduleKey = "schedule"

// ErrUnknownBackend is returned by Open for an unsupported storage backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is the persistence collaborator. Load returns no slots and no error
// when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]schedule.Slot, error)
	Save(ctx context.Context, slots []schedule.Slot) error
	Close() error
}

// Timestamped is implemented by stores that record write times.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Open creates the backend selected in cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return New(cfg.DBPath)
	case config.BackendDiskv:
		return NewDisk(cfg.DiskvPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// record is the stored form of one slot.
type record struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

// encode serializes slots in partition order.
func encode(slots []schedule.Slot) ([]byte, error) {
	recs := make([]record, len(slots))
	for i, s := range slots {
		recs[i] = record{
			Start: float64(s.Start),
			End:   float64(s.End),
			Label: s.Label,
			Color: string(s.Color),
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encoding schedule: %w", err)
	}
	return data, nil
}

// decode is the inverse of encode. Empty input decodes to no slots.
func decode(data []byte) ([]schedule.Slot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	slots := make([]schedule.Slot, len(recs))
	for i, r := range recs {
		slots[i] = schedule.Slot{
			Start: schedule.Time(r.Start),
			End:   schedule.Time(r.End),
			Label: r.Label,
			Color: palette.Color(r.Color),
		}
	}
	return slots, nil
}
