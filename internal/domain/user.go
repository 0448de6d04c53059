package domain

import "time"

// UserTypeAdmin marks dashboard administrators in the users collection.
const UserTypeAdmin = "Admin"

// User represents a document in the users collection.
// App users may have no Type at all.
type User struct {
	ID          string    `json:"uid" firestore:"-" bson:"_id"`
	Email       string    `json:"email" firestore:"email" bson:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName" bson:"displayName"`
	PhotoURL    string    `json:"photoUrl" firestore:"photoUrl" bson:"photoUrl"`
	PhoneNumber string    `json:"phoneNumber" firestore:"phoneNumber" bson:"phoneNumber"`
	Type        string    `json:"type,omitempty" firestore:"type,omitempty" bson:"type,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user is a dashboard administrator.
func (u User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// ProfileUpdate holds the profile fields a user may change. Nil fields are left as-is.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
	PhoneNumber *string
}

// Session is the result of a successful sign-in.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Claims are the verified contents of an ID token.
type Claims struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"-"`
}
