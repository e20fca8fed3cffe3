package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medtrack-backend/internal/model"
)

// row ties an entity type to its pointer so gorm can scan into it.
type row[E any] interface {
	*E
	model.Entity
}

// gormCollection stores one collection in its own table. Insertion order is
// kept by the seq column, which gorm fills on create and updates never touch.
// mu serializes Modify calls within the process; on postgres the row is also
// locked for the length of the transaction.
type gormCollection[E any, P row[E]] struct {
	db  *gorm.DB
	rev *atomic.Uint64
	mu  sync.Mutex
}

func (c *gormCollection[E, P]) List(ctx context.Context) ([]E, error) {
	var rows []E
	if err := c.db.WithContext(ctx).Order("seq ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if rows == nil {
		rows = []E{}
	}
	return rows, nil
}

func (c *gormCollection[E, P]) Get(ctx context.Context, id string) (E, error) {
	var e E
	err := c.db.WithContext(ctx).Where("id = ?", id).First(P(&e)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("failed to get record %q: %w", id, err)
	}
	return e, nil
}

func (c *gormCollection[E, P]) Add(ctx context.Context, e E) error {
	p := P(&e)
	if err := model.Validate(p); err != nil {
		return err
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(P(new(E))).Where("id = ?", p.Key()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check id %q: %w", p.Key(), err)
		}
		if count > 0 {
			return fmt.Errorf("add %q: %w", p.Key(), ErrDuplicateID)
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create record %q: %w", p.Key(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.rev.Add(1)
	return nil
}

func (c *gormCollection[E, P]) Update(ctx context.Context, e E) (Outcome, error) {
	p := P(&e)
	if err := model.Validate(p); err != nil {
		return OutcomeNotFound, err
	}

	res := c.db.WithContext(ctx).Model(p).Select("*").Omit("seq").Updates(p)
	if res.Error != nil {
		return OutcomeNotFound, fmt.Errorf("failed to update record %q: %w", p.Key(), res.Error)
	}
	if res.RowsAffected == 0 {
		return OutcomeNotFound, nil
	}
	c.rev.Add(1)
	return OutcomeApplied, nil
}

func (c *gormCollection[E, P]) Modify(ctx context.Context, id string, fn func(*E) error) (E, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e E
	outcome := OutcomeNotFound
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.First(P(&e)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load record %q: %w", id, err)
		}

		if err := fn(&e); err != nil {
			return err
		}
		p := P(&e)
		if p.Key() != id {
			return fmt.Errorf("modify %q: %w", id, ErrIDChanged)
		}
		if err := model.Validate(p); err != nil {
			return err
		}
		if err := tx.Model(p).Select("*").Omit("seq").Updates(p).Error; err != nil {
			return fmt.Errorf("failed to update record %q: %w", id, err)
		}
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		var zero E
		return zero, OutcomeNotFound, err
	}
	if outcome == OutcomeNotFound {
		var zero E
		return zero, outcome, nil
	}
	c.rev.Add(1)
	return e, outcome, nil
}

func (c *gormCollection[E, P]) Remove(ctx context.Context, id string) (Outcome, error) {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(P(new(E)))
	if res.Error != nil {
		return OutcomeNotFound, fmt.Errorf("failed to delete record %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return OutcomeNotFound, nil
	}
	c.rev.Add(1)
	return OutcomeApplied, nil
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db      *gorm.DB
	rev     atomic.Uint64
	loading atomic.Bool

	devices       *gormCollection[model.Device, *model.Device]
	installations *gormCollection[model.Installation, *model.Installation]
	visits        *gormCollection[model.ServiceVisit, *model.ServiceVisit]
	contracts     *gormCollection[model.AMCContract, *model.AMCContract]
	alerts        *gormCollection[model.Alert, *model.Alert]
}

// NewGormStore creates a new GORM-backed store. The schema must already exist;
// see db.Migrate.
func NewGormStore(db *gorm.DB) Store {
	s := &gormStore{db: db}
	s.devices = &gormCollection[model.Device, *model.Device]{db: db, rev: &s.rev}
	s.installations = &gormCollection[model.Installation, *model.Installation]{db: db, rev: &s.rev}
	s.visits = &gormCollection[model.ServiceVisit, *model.ServiceVisit]{db: db, rev: &s.rev}
	s.contracts = &gormCollection[model.AMCContract, *model.AMCContract]{db: db, rev: &s.rev}
	s.alerts = &gormCollection[model.Alert, *model.Alert]{db: db, rev: &s.rev}
	return s
}

func (s *gormStore) Devices() Collection[model.Device]             { return s.devices }
func (s *gormStore) Installations() Collection[model.Installation] { return s.installations }
func (s *gormStore) ServiceVisits() Collection[model.ServiceVisit] { return s.visits }
func (s *gormStore) Contracts() Collection[model.AMCContract]      { return s.contracts }
func (s *gormStore) Alerts() Collection[model.Alert]               { return s.alerts }

func (s *gormStore) SetDevicesLoading(loading bool) { s.loading.Store(loading) }
func (s *gormStore) DevicesLoading() bool           { return s.loading.Load() }
func (s *gormStore) Revision() uint64               { return s.rev.Load() }
