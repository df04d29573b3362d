package entities

// User represents a registered account.
type User struct {
	ID           string   `json:"_id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Don't expose password hash in JSON
	Favourites   []string `json:"favourites"`
}

// HasFavourite reports whether placeID is in the user's favourites.
func (u *User) HasFavourite(placeID string) bool {
	for _, id := range u.Favourites {
		if id == placeID {
			return true
		}
	}
	return false
}

// ToggleFavourite removes placeID when present and appends it otherwise.
func ToggleFavourite(favourites []string, placeID string) []string {
	out := make([]string, 0, len(favourites)+1)
	removed := false
	for _, id := range favourites {
		if id == placeID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if !removed {
		out = append(out, placeID)
	}
	return out
}
