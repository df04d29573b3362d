package models

// AuthResponse is returned by POST /api/users/authenticate
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"` // JWT token
}

// FavouritesResponse is returned after toggling a favourite
type FavouritesResponse struct {
	Favourites []string `json:"favourites"`
}
