// Package web embeds the HTML templates and browser scripts of the UI.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"explorer-be/internal/entities"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed scripts/*.js
var scriptsFS embed.FS

var funcs = template.FuncMap{
	"isFavourite": func(u *entities.User, placeID string) bool {
		return u != nil && u.HasFavourite(placeID)
	},
	// imageName is the last path segment of an image URL, used as the
	// fragment when deleting it.
	"imageName": func(url string) string {
		return path.Base(url)
	},
}

// Templates parses every page and partial.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// Scripts serves the browser scripts mounted under /scripts/.
func Scripts() http.FileSystem {
	sub, err := fs.Sub(scriptsFS, "scripts")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
