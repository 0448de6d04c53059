package aggregate

import "fmt"

const defaultImageField = "imageUrl"

// Binding describes how one resource type maps onto the engine.
type Binding[T Item] struct {
	// Kind is the display name used in messages, e.g. "Quest".
	Kind string
	// Singular is the multipart form field and response key, e.g. "quest".
	Singular string
	// Plural is the route segment and asset prefix, e.g. "quests".
	Plural string
	// Collection is the document store collection holding the aggregate documents.
	Collection string
	// IDPrefix starts every generated id, e.g. "quest_".
	IDPrefix string

	// CreateFields and UpdateFields list the payload keys copied into the item.
	CreateFields []string
	UpdateFields []string

	// RequireImage rejects creation without an uploaded image.
	RequireImage bool
	// ImageField receives the URL of the uploaded image. Defaults to "imageUrl".
	ImageField string
	// Gallery accepts featuredImages uploads when the item is featured.
	Gallery bool
	// StampOwner sets userId to the admin id on create.
	StampOwner bool

	// OnUpdate adjusts the merged fields before they are written back.
	OnUpdate func(merged Fields) error
}

func (b Binding[T]) imageField() string {
	if b.ImageField == "" {
		return defaultImageField
	}
	return b.ImageField
}

func (b Binding[T]) validate() error {
	switch {
	case b.Kind == "", b.Singular == "", b.Plural == "":
		return fmt.Errorf("binding names must be set")
	case b.IDPrefix == "":
		return fmt.Errorf("binding %s has no id prefix", b.Kind)
	case b.Collection == "":
		return fmt.Errorf("binding %s has no collection", b.Kind)
	}
	return nil
}
