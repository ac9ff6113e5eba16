package riders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
)

const locationKeyPrefix = "rider_location_"

// RiderWithLocation is one row of the admin map view.
type RiderWithLocation struct {
	RiderID   string                `json:"riderId"`
	RiderName string                `json:"riderName"`
	Status    string                `json:"status"`
	Location  *domain.RiderLocation `json:"location"`
}

// Locations stores and serves last-known rider GPS fixes. Riders post a
// fix every few tens of seconds; the dashboard polls the full set.
type Locations struct {
	kv  kvstore.Store
	dir Directory
	now func() time.Time
}

func NewLocations(kv kvstore.Store, dir Directory) *Locations {
	return &Locations{kv: kv, dir: dir, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (l *Locations) WithClock(now func() time.Time) *Locations {
	l.now = now
	return l
}

func locationKey(riderID string) string { return locationKeyPrefix + riderID }

// Update overwrites the rider's stored fix with a fresh timestamp.
func (l *Locations) Update(ctx context.Context, riderID string, latitude, longitude float64) error {
	loc := domain.RiderLocation{
		Latitude:  latitude,
		Longitude: longitude,
		Timestamp: l.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return l.kv.Set(ctx, locationKey(riderID), string(b))
}

// Get returns the rider's last fix, or nil if none was ever reported.
func (l *Locations) Get(ctx context.Context, riderID string) (*domain.RiderLocation, error) {
	raw, ok, err := l.kv.Get(ctx, locationKey(riderID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var loc domain.RiderLocation
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, fmt.Errorf("decode location for %s: %w", riderID, err)
	}
	return &loc, nil
}

// All joins the rider directory with stored fixes. Riders without a fix
// appear with a nil location.
func (l *Locations) All(ctx context.Context) ([]RiderWithLocation, error) {
	rs, err := l.dir.ListRiders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RiderWithLocation, 0, len(rs))
	for _, r := range rs {
		loc, err := l.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		name := r.Name
		if name == "" {
			name = r.Username
		}
		out = append(out, RiderWithLocation{
			RiderID:   r.ID,
			RiderName: name,
			Status:    r.Status,
			Location:  loc,
		})
	}
	return out, nil
}
