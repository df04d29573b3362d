package models

// RegisterRequest represents the signup form and POST /api/users body
type RegisterRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required,min=3,max=30"`
	LastName  string `json:"lastName" form:"lastName" binding:"required,min=3,max=30"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
}

// LoginRequest represents the login form and POST /api/users/authenticate body
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}
