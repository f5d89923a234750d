package gates

import (
	"context"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// Style is the visual style of a gate on the linked map view.
type Style struct {
	ID     string  `json:"id" bson:"_id" redis:"id"`
	Name   string  `json:"name" bson:"name" redis:"name"`
	Parent string  `json:"parent,omitempty" bson:"parent,omitempty" redis:"parent"`
	Stroke string  `json:"stroke" bson:"stroke" redis:"stroke"`
	Fill   string  `json:"fill" bson:"fill" redis:"fill"`
	Width  float64 `json:"width" bson:"width" redis:"width"`
}

// DefaultWidth is the stroke width given to seeded styles.
const DefaultWidth = 2.0

// Store holds gate styles. Charts request colour changes through it by the
// gate identifier they share with the map view; the store owns the style.
// Concurrent writers to the same gate are last-writer-wins.
type Store interface {
	// StyleFor returns the style for id, or an ErrCodeGateNotFound error.
	StyleFor(ctx context.Context, id string) (Style, error)

	// SetColor sets both stroke and fill of an existing gate.
	SetColor(ctx context.Context, id, color string) error

	// List returns every style ordered by ID.
	List(ctx context.Context) ([]Style, error)

	// Put creates or replaces a style.
	Put(ctx context.Context, s Style) error

	// Close releases backend resources.
	Close() error
}

// ComposeColor combines a picked #rrggbb colour with the alpha suffix of
// the previous #rrggbbaa colour, so recolouring keeps translucency.
func ComposeColor(previous, picked string) string {
	if len(picked) > 7 {
		picked = picked[:7]
	}
	if len(previous) > 7 {
		return picked + previous[7:]
	}
	return picked
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeGateNotFound, "gate %q not found", id)
}

func validate(s Style) error {
	if err := errors.ValidateGateID(s.ID); err != nil {
		return err
	}
	for _, c := range []string{s.Stroke, s.Fill} {
		if c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Seed writes styles that are not already present in the store.
func Seed(ctx context.Context, store Store, styles []Style) (int, error) {
	added := 0
	for _, s := range styles {
		_, err := store.StyleFor(ctx, s.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, errors.ErrCodeGateNotFound) {
			return added, err
		}
		if err := store.Put(ctx, s); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
