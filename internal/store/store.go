package store

import (
	"context"

	"medtrack-backend/internal/model"
)

// Collection is the read/write contract shared by every entity collection.
type Collection[E model.Entity] interface {
	// List returns a copy of the collection in insertion order.
	List(ctx context.Context) ([]E, error)
	// Get looks a record up by id and returns ErrNotFound when it is absent.
	Get(ctx context.Context, id string) (E, error)
	// Add validates and appends a record. The id must not be in use.
	Add(ctx context.Context, e E) error
	// Update replaces the record with the same id, keeping its position.
	Update(ctx context.Context, e E) (Outcome, error)
	// Modify applies fn to the record with the id and stores the result as one
	// step. Concurrent Modify calls on the collection wait until it is stored.
	// An error from fn leaves the record untouched.
	Modify(ctx context.Context, id string, fn func(*E) error) (E, Outcome, error)
	// Remove deletes every record with the id.
	Remove(ctx context.Context, id string) (Outcome, error)
}

// Store owns the dashboard collections. It is the only mutation authority;
// collections are independent and there are no cross-collection transactions.
type Store interface {
	Devices() Collection[model.Device]
	Installations() Collection[model.Installation]
	ServiceVisits() Collection[model.ServiceVisit]
	Contracts() Collection[model.AMCContract]
	Alerts() Collection[model.Alert]

	SetDevicesLoading(loading bool)
	DevicesLoading() bool

	// Revision increases on every applied mutation.
	Revision() uint64
}
