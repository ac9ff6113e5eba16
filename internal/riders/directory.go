// Package riders exposes the rider directory to the rest of the system
// and tracks last-known rider locations.
package riders

import (
	"context"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Directory lists rider accounts and writes their derived availability
// status. The auth service implements it.
type Directory interface {
	ListRiders(ctx context.Context) ([]domain.Rider, error)
	SetRiderStatus(ctx context.Context, riderID, status string) error
}
