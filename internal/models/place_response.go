package models

// UploadResponse is returned by POST /api/pois/:id/upload
type UploadResponse struct {
	Message string   `json:"message"`
	Images  []string `json:"images"`
}

// ImagesResponse is returned after removing images from a place
type ImagesResponse struct {
	Images []string `json:"images"`
}
