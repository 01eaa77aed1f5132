package room

import "time"

// Type categorises a room by its function.
type Type string

// Valid room types.
const (
	TypeBedroom    Type = "bedroom"
	TypeBathroom   Type = "bathroom"
	TypeKitchen    Type = "kitchen"
	TypeLivingRoom Type = "living_room"
	TypeOther      Type = "other"
)

// AllTypes returns all valid room types.
func AllTypes() []Type {
	return []Type{TypeBedroom, TypeBathroom, TypeKitchen, TypeLivingRoom, TypeOther}
}

// ValidType checks if a string is a valid room type.
func ValidType(s string) bool {
	for _, t := range AllTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Room represents a room within a house.
//
// Floor 0 is the ground floor; negative floors are basements.
// SizeM2 is optional floor area in square metres.
type Room struct {
	ID        string    `json:"id"`
	HouseID   string    `json:"house_id"`
	Name      string    `json:"name"`
	Floor     int       `json:"floor"`
	SizeM2    *float64  `json:"size_m2,omitempty"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy returns a copy of the room safe for independent mutation.
func (rm *Room) DeepCopy() *Room {
	if rm == nil {
		return nil
	}
	copied := *rm
	if rm.SizeM2 != nil {
		size := *rm.SizeM2
		copied.SizeM2 = &size
	}
	return &copied
}
