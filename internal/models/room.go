package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a two-party chat room. User1ID < User2ID always (see CanonicalPair), and the
// composite unique index guarantees one room per pair.
type Room struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	User1ID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_pair"`
	User2ID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_pair;index"`
	CreatedAt      time.Time
	LastActivityAt time.Time `gorm:"index"`

	User1 User `gorm:"foreignKey:User1ID"`
	User2 User `gorm:"foreignKey:User2ID"`
}

func (r *Room) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Room) HasMember(userID uuid.UUID) bool {
	return userID != uuid.Nil && (r.User1ID == userID || r.User2ID == userID)
}

// Other returns the member that is not userID. Callers check HasMember first.
func (r *Room) Other(userID uuid.UUID) uuid.UUID {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}

func (r *Room) Members() []User {
	return []User{r.User1, r.User2}
}
