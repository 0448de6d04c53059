package domain

import "time"

// Quest step types
const (
	StepTypeQR           = "qr"
	StepTypeLocation     = "location"
	StepTypeTimeLocation = "timeLocation"
)

// Achievement trigger kinds
const (
	TriggerExperience  = "experience"
	TriggerLevel       = "level"
	TriggerAchievement = "achievement"
	TriggerQuest       = "quest"
)

// QuestStep describes what the player must do to complete a quest.
type QuestStep struct {
	Type      string  `json:"type" firestore:"type" bson:"type"`
	Latitude  float64 `json:"latitude" firestore:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude" bson:"longitude"`
	Radius    float64 `json:"radius" firestore:"radius" bson:"radius"`
	TimeLimit int     `json:"timeLimit" firestore:"timeLimit" bson:"timeLimit"`
}

// Quest is a single task players complete for experience.
// A nil UserID marks a public quest.
type Quest struct {
	ID               string    `json:"id" firestore:"id" bson:"id"`
	UserID           *string   `json:"userId" firestore:"userId" bson:"userId"`
	Title            string    `json:"title" firestore:"title" bson:"title"`
	ShortDescription string    `json:"shortDescription" firestore:"shortDescription" bson:"shortDescription"`
	Description      string    `json:"description" firestore:"description" bson:"description"`
	Experience       int       `json:"experience" firestore:"experience" bson:"experience"`
	Step             QuestStep `json:"step" firestore:"step" bson:"step"`
	CooldownHours    int       `json:"cooldownHours" firestore:"cooldownHours" bson:"cooldownHours"`
	Category         string    `json:"category" firestore:"category" bson:"category"`
	ImageURL         string    `json:"imageUrl" firestore:"imageUrl" bson:"imageUrl"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (q Quest) ItemID() string { return q.ID }

func (q Quest) OwnerID() string {
	if q.UserID == nil {
		return ""
	}
	return *q.UserID
}

func (q Quest) SearchText() string { return q.Title }

// Adventure is a location-based outing. Featured adventures carry an image gallery.
type Adventure struct {
	ID               string    `json:"id" firestore:"id" bson:"id"`
	UserID           string    `json:"userId" firestore:"userId" bson:"userId"`
	Title            string    `json:"title" firestore:"title" bson:"title"`
	ShortDescription string    `json:"shortDescription" firestore:"shortDescription" bson:"shortDescription"`
	Description      string    `json:"description" firestore:"description" bson:"description"`
	Latitude         float64   `json:"latitude" firestore:"latitude" bson:"latitude"`
	Longitude        float64   `json:"longitude" firestore:"longitude" bson:"longitude"`
	Distance         float64   `json:"distance" firestore:"distance" bson:"distance"`
	Experience       int       `json:"experience" firestore:"experience" bson:"experience"`
	Featured         bool      `json:"featured" firestore:"featured" bson:"featured"`
	ImageURL         string    `json:"imageUrl" firestore:"imageUrl" bson:"imageUrl"`
	FeaturedImages   []string  `json:"featuredImages" firestore:"featuredImages" bson:"featuredImages"`
	CooldownHours    int       `json:"cooldownHours" firestore:"cooldownHours" bson:"cooldownHours"`
	Category         string    `json:"category" firestore:"category" bson:"category"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (a Adventure) ItemID() string     { return a.ID }
func (a Adventure) OwnerID() string    { return a.UserID }
func (a Adventure) SearchText() string { return a.Title }

// Category groups quests and adventures. Referenced by id, never cascaded.
type Category struct {
	ID        string    `json:"id" firestore:"id" bson:"id"`
	UserID    string    `json:"userId" firestore:"userId" bson:"userId"`
	Name      string    `json:"name" firestore:"name" bson:"name"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl" bson:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (c Category) ItemID() string     { return c.ID }
func (c Category) OwnerID() string    { return c.UserID }
func (c Category) SearchText() string { return c.Name }

// Achievement is unlocked when a player's trigger metric reaches TriggerValue.
// TriggerValue is kept as an opaque string.
type Achievement struct {
	ID           string    `json:"id" firestore:"id" bson:"id"`
	UserID       string    `json:"userId" firestore:"userId" bson:"userId"`
	Title        string    `json:"title" firestore:"title" bson:"title"`
	Description  string    `json:"description" firestore:"description" bson:"description"`
	Icon         string    `json:"icon" firestore:"icon" bson:"icon"`
	Trigger      string    `json:"trigger" firestore:"trigger" bson:"trigger"`
	TriggerValue string    `json:"triggerValue" firestore:"triggerValue" bson:"triggerValue"`
	DateAchieved string    `json:"dateAchieved,omitempty" firestore:"dateAchieved,omitempty" bson:"dateAchieved,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (a Achievement) ItemID() string     { return a.ID }
func (a Achievement) OwnerID() string    { return a.UserID }
func (a Achievement) SearchText() string { return a.Title }

// Event is a dated, located happening shown in the app when Visible.
type Event struct {
	ID          string    `json:"id" firestore:"id" bson:"id"`
	UserID      string    `json:"userId" firestore:"userId" bson:"userId"`
	Title       string    `json:"title" firestore:"title" bson:"title"`
	Description string    `json:"description" firestore:"description" bson:"description"`
	Date        string    `json:"date" firestore:"date" bson:"date"`
	Latitude    float64   `json:"latitude" firestore:"latitude" bson:"latitude"`
	Longitude   float64   `json:"longitude" firestore:"longitude" bson:"longitude"`
	Experience  int       `json:"experience" firestore:"experience" bson:"experience"`
	ImageURL    string    `json:"imageUrl" firestore:"imageUrl" bson:"imageUrl"`
	Visible     bool      `json:"visible" firestore:"visible" bson:"visible"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (e Event) ItemID() string     { return e.ID }
func (e Event) OwnerID() string    { return e.UserID }
func (e Event) SearchText() string { return e.Title }

// StoreItem is bought with experience points. A nil Inventory means unlimited stock.
type StoreItem struct {
	ID          string    `json:"id" firestore:"id" bson:"id"`
	UserID      string    `json:"userId" firestore:"userId" bson:"userId"`
	Title       string    `json:"title" firestore:"title" bson:"title"`
	Description string    `json:"description" firestore:"description" bson:"description"`
	XPCost      int       `json:"xpCost" firestore:"xpCost" bson:"xpCost"`
	ImageURL    string    `json:"imageUrl" firestore:"imageUrl" bson:"imageUrl"`
	Available   bool      `json:"available" firestore:"available" bson:"available"`
	Inventory   *int      `json:"inventory,omitempty" firestore:"inventory,omitempty" bson:"inventory,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

func (s StoreItem) ItemID() string     { return s.ID }
func (s StoreItem) OwnerID() string    { return s.UserID }
func (s StoreItem) SearchText() string { return s.Title }
