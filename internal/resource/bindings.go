package resource

import (
	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// DefaultAdventureDistance replaces a missing or zero distance when an adventure is updated.
const DefaultAdventureDistance = 30

// Quest bindings copy userId from the payload: a null owner makes the quest public.
func QuestBinding() aggregate.Binding[domain.Quest] {
	fields := []string{
		"title", "shortDescription", "description", "experience", "step",
		"cooldownHours", "category", "imageUrl",
	}
	return aggregate.Binding[domain.Quest]{
		Kind:         "Quest",
		Singular:     "quest",
		Plural:       "quests",
		Collection:   "quests",
		IDPrefix:     "quest_",
		CreateFields: append([]string{"userId"}, fields...),
		UpdateFields: fields,
	}
}

func AdventureBinding() aggregate.Binding[domain.Adventure] {
	fields := []string{
		"title", "shortDescription", "description", "latitude", "longitude",
		"distance", "experience", "featured", "imageUrl", "featuredImages",
		"cooldownHours", "category",
	}
	return aggregate.Binding[domain.Adventure]{
		Kind:         "Adventure",
		Singular:     "adventure",
		Plural:       "adventures",
		Collection:   "adventures",
		IDPrefix:     "adventure_",
		CreateFields: fields,
		UpdateFields: fields,
		Gallery:      true,
		StampOwner:   true,
		OnUpdate:     defaultDistance,
	}
}

func CategoryBinding() aggregate.Binding[domain.Category] {
	return aggregate.Binding[domain.Category]{
		Kind:         "Category",
		Singular:     "category",
		Plural:       "categories",
		Collection:   "categories",
		IDPrefix:     "category_",
		CreateFields: []string{"name"},
		UpdateFields: []string{"name", "imageUrl"},
		RequireImage: true,
		StampOwner:   true,
	}
}

func AchievementBinding() aggregate.Binding[domain.Achievement] {
	fields := []string{"title", "description", "icon", "trigger", "triggerValue", "dateAchieved"}
	return aggregate.Binding[domain.Achievement]{
		Kind:         "Achievement",
		Singular:     "achievement",
		Plural:       "achievements",
		Collection:   "achievements",
		IDPrefix:     "achievement_",
		CreateFields: fields,
		UpdateFields: fields,
		ImageField:   "icon",
		StampOwner:   true,
	}
}

func EventBinding() aggregate.Binding[domain.Event] {
	fields := []string{
		"title", "description", "date", "latitude", "longitude",
		"experience", "imageUrl", "visible",
	}
	return aggregate.Binding[domain.Event]{
		Kind:         "Event",
		Singular:     "event",
		Plural:       "events",
		Collection:   "events",
		IDPrefix:     "event_",
		CreateFields: fields,
		UpdateFields: fields,
		StampOwner:   true,
	}
}

func StoreItemBinding() aggregate.Binding[domain.StoreItem] {
	return aggregate.Binding[domain.StoreItem]{
		Kind:         "Item",
		Singular:     "item",
		Plural:       "store",
		Collection:   "store",
		IDPrefix:     "item_",
		CreateFields: []string{"title", "description", "xpCost", "available", "inventory"},
		UpdateFields: []string{"title", "description", "xpCost", "imageUrl", "available", "inventory"},
		RequireImage: true,
		StampOwner:   true,
	}
}

func defaultDistance(merged aggregate.Fields) error {
	if merged.Truthy("distance") {
		return nil
	}
	return merged.Set("distance", DefaultAdventureDistance)
}
