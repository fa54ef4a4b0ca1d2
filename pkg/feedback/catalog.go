package feedback

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cuemby/arenafeed/pkg/types"
)

// ErrUnknownCategory is returned for a category no engine serves
var ErrUnknownCategory = errors.New("unknown feedback category")

// Options are the per-consumer display settings
type Options struct {
	// Step is the distance for next/previous names; values below 1 mean 1
	Step      int
	View      string
	CountDown bool
	ShowName  bool
	ShowText  bool
	ShowThumb bool
	// Colors overrides DefaultConnectionColors
	Colors *ConnectionColors
}

func (o Options) step() int {
	if o.Step < 1 {
		return 1
	}
	return o.Step
}

func (o Options) colors() ConnectionColors {
	if o.Colors == nil {
		return DefaultConnectionColors()
	}
	return *o.Colors
}

type category struct {
	engine  *Engine
	signal  string
	compute ComputeFunc
}

// Catalog routes feedback categories to the engines serving them
type Catalog struct {
	categories map[string]category
}

// NewCatalog indexes every category of engines
func NewCatalog(engines ...*Engine) *Catalog {
	c := &Catalog{categories: make(map[string]category)}
	for _, e := range engines {
		for _, def := range e.desc.Categories {
			c.categories[def.Name] = category{engine: e, signal: def.Signal, compute: def.Compute}
		}
	}
	return c
}

// Categories returns every category name, sorted
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kind returns the entity kind of category
func (c *Catalog) Kind(name string) (types.Kind, error) {
	cat, ok := c.categories[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	return cat.engine.Kind(), nil
}

// Global reports whether category is a composition-wide summary that takes
// no identity.
func (c *Catalog) Global(name string) bool {
	cat, ok := c.categories[name]
	return ok && cat.signal == ""
}

// Subscribe registers consumer for category at params, e.g. "2,3" for a clip.
// Global categories and unparsable identities are accepted without effect.
func (c *Catalog) Subscribe(name string, consumer types.ConsumerID, params string) error {
	cat, id, ok, err := c.resolve(name, params)
	if err != nil || !ok {
		return err
	}
	cat.engine.Subscribe(cat.signal, id, consumer)
	return nil
}

// Unsubscribe removes consumer from category at params
func (c *Catalog) Unsubscribe(name string, consumer types.ConsumerID, params string) error {
	cat, id, ok, err := c.resolve(name, params)
	if err != nil || !ok {
		return err
	}
	cat.engine.Unsubscribe(cat.signal, id, consumer)
	return nil
}

// Compute returns the current display value of category at params. An
// invalid identity yields an empty result.
func (c *Catalog) Compute(name string, params string, opts Options) (Result, error) {
	cat, ok := c.categories[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	if cat.signal == "" {
		return cat.compute(cat.engine, types.EntityID{}, opts), nil
	}
	id, err := types.ParseParams(cat.engine.Kind(), params)
	if err != nil || !id.Valid() {
		return Result{}, nil
	}
	return cat.compute(cat.engine, id, opts), nil
}

func (c *Catalog) resolve(name, params string) (category, types.EntityID, bool, error) {
	cat, ok := c.categories[name]
	if !ok {
		return category{}, types.EntityID{}, false, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	if cat.signal == "" {
		return cat, types.EntityID{}, false, nil
	}
	id, err := types.ParseParams(cat.engine.Kind(), params)
	if err != nil || !id.Valid() {
		cat.engine.logger.Debug().Str("category", name).Str("params", params).Msg("ignoring invalid identity")
		return cat, types.EntityID{}, false, nil
	}
	return cat, id, true, nil
}
