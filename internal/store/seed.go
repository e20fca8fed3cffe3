package store

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"medtrack-backend/internal/model"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the initial content of a fresh store.
type SeedData struct {
	Devices       []model.Device       `yaml:"devices"`
	Installations []model.Installation `yaml:"installations"`
	ServiceVisits []model.ServiceVisit `yaml:"serviceVisits"`
	Contracts     []model.AMCContract  `yaml:"contracts"`
}

// DefaultSeed returns the bundled sample data set.
func DefaultSeed() (SeedData, error) {
	return DecodeSeed(defaultSeed)
}

// DecodeSeed parses a YAML seed document.
func DecodeSeed(raw []byte) (SeedData, error) {
	var seed SeedData
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return SeedData{}, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return seed, nil
}

// Seed adds every record of the seed to s. Records whose id already exists are
// skipped, so seeding an already populated store is harmless.
func Seed(ctx context.Context, s Store, seed SeedData) (int, error) {
	added := 0
	for _, d := range seed.Devices {
		n, err := seedOne(ctx, s.Devices(), d)
		if err != nil {
			return added, err
		}
		added += n
	}
	for _, i := range seed.Installations {
		n, err := seedOne(ctx, s.Installations(), i)
		if err != nil {
			return added, err
		}
		added += n
	}
	for _, v := range seed.ServiceVisits {
		n, err := seedOne(ctx, s.ServiceVisits(), v)
		if err != nil {
			return added, err
		}
		added += n
	}
	for _, c := range seed.Contracts {
		n, err := seedOne(ctx, s.Contracts(), c)
		if err != nil {
			return added, err
		}
		added += n
	}
	return added, nil
}

func seedOne[E model.Entity](ctx context.Context, c Collection[E], e E) (int, error) {
	err := c.Add(ctx, e)
	if errors.Is(err, ErrDuplicateID) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to seed %q: %w", e.Key(), err)
	}
	return 1, nil
}
