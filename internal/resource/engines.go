package resource

import (
	"fmt"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/assets"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// Stores holds one aggregate store per resource type.
type Stores struct {
	Quests       aggregate.Store[domain.Quest]
	Adventures   aggregate.Store[domain.Adventure]
	Categories   aggregate.Store[domain.Category]
	Achievements aggregate.Store[domain.Achievement]
	Events       aggregate.Store[domain.Event]
	StoreItems   aggregate.Store[domain.StoreItem]
}

// Engines holds the CRUD engine of every resource type.
type Engines struct {
	Quests       *aggregate.Engine[domain.Quest]
	Adventures   *aggregate.Engine[domain.Adventure]
	Categories   *aggregate.Engine[domain.Category]
	Achievements *aggregate.Engine[domain.Achievement]
	Events       *aggregate.Engine[domain.Event]
	StoreItems   *aggregate.Engine[domain.StoreItem]
}

// NewEngines binds every resource type to its store. All engines share the uploader and options.
func NewEngines(stores Stores, uploader assets.Uploader, opts ...aggregate.Option) (*Engines, error) {
	var (
		e   Engines
		err error
	)
	if e.Quests, err = aggregate.NewEngine(QuestBinding(), stores.Quests, uploader, opts...); err != nil {
		return nil, fmt.Errorf("quests: %w", err)
	}
	if e.Adventures, err = aggregate.NewEngine(AdventureBinding(), stores.Adventures, uploader, opts...); err != nil {
		return nil, fmt.Errorf("adventures: %w", err)
	}
	if e.Categories, err = aggregate.NewEngine(CategoryBinding(), stores.Categories, uploader, opts...); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if e.Achievements, err = aggregate.NewEngine(AchievementBinding(), stores.Achievements, uploader, opts...); err != nil {
		return nil, fmt.Errorf("achievements: %w", err)
	}
	if e.Events, err = aggregate.NewEngine(EventBinding(), stores.Events, uploader, opts...); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	if e.StoreItems, err = aggregate.NewEngine(StoreItemBinding(), stores.StoreItems, uploader, opts...); err != nil {
		return nil, fmt.Errorf("store items: %w", err)
	}
	return &e, nil
}

// NewMemoryStores returns in-memory stores for every resource type.
func NewMemoryStores() Stores {
	return Stores{
		Quests:       aggregate.NewMemoryStore[domain.Quest](),
		Adventures:   aggregate.NewMemoryStore[domain.Adventure](),
		Categories:   aggregate.NewMemoryStore[domain.Category](),
		Achievements: aggregate.NewMemoryStore[domain.Achievement](),
		Events:       aggregate.NewMemoryStore[domain.Event](),
		StoreItems:   aggregate.NewMemoryStore[domain.StoreItem](),
	}
}
