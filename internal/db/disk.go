package db

import (
	"context"
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// Disk implements Store with one file per key under a base directory.
type Disk struct {
	d *diskv.Diskv
}

// NewDisk creates a diskv-backed store rooted at basePath.
func NewDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// Load implements Store.
func (s *Disk) Load(ctx context.Context) ([]schedule.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.d.Has(ScheduleKey) {
		return nil, nil
	}
	data, err := s.d.Read(ScheduleKey)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return decode(data)
}

// Save implements Store.
func (s *Disk) Save(ctx context.Context, slots []schedule.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(slots)
	if err != nil {
		return err
	}
	if err := s.d.Write(ScheduleKey, data); err != nil {
		return fmt.Errorf("writing schedule: %w", err)
	}
	return nil
}

// Close implements Store. diskv holds no open handles between calls.
func (s *Disk) Close() error {
	return nil
}
