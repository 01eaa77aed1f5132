package house

import "time"

// House represents a physical property managed by the system.
//
// Every house has exactly one owner. Latitude and longitude are
// optional; not every installation records GPS coordinates.
type House struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	OccupantCount int       `json:"occupant_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DeepCopy returns a copy of the house safe for independent mutation.
func (h *House) DeepCopy() *House {
	if h == nil {
		return nil
	}
	copied := *h
	if h.Latitude != nil {
		lat := *h.Latitude
		copied.Latitude = &lat
	}
	if h.Longitude != nil {
		lon := *h.Longitude
		copied.Longitude = &lon
	}
	return &copied
}
