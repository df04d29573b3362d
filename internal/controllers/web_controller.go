package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/auth"
	"explorer-be/internal/entities"
	"explorer-be/internal/logging"
	"explorer-be/internal/middleware"
	"explorer-be/internal/models"
	"explorer-be/internal/repository"
	"explorer-be/internal/service"
	"explorer-be/internal/validation"
)

// WebController serves the server-rendered pages. Every page is rendered
// through render so the layout always sees the same keys.
type WebController struct {
	authService  service.AuthService
	userService  service.UserService
	placeService service.PlaceService
	mediaService service.MediaService
	session      *auth.SessionCookie
	mapsAPIKey   string
}

func NewWebController(
	authService service.AuthService,
	userService service.UserService,
	placeService service.PlaceService,
	mediaService service.MediaService,
	session *auth.SessionCookie,
	mapsAPIKey string,
) *WebController {
	return &WebController{
		authService:  authService,
		userService:  userService,
		placeService: placeService,
		mediaService: mediaService,
		session:      session,
		mapsAPIKey:   mapsAPIKey,
	}
}

func (wc *WebController) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := middleware.CurrentUser(c); ok {
		data["user"] = user
		data["isAuthenticated"] = true
	}
	if _, ok := data["category"]; !ok {
		data["category"] = ""
	}
	data["categories"] = entities.Categories
	data["mapsAPIKey"] = wc.mapsAPIKey
	c.HTML(status, page, data)
}

func (wc *WebController) renderInternal(c *gin.Context, err error, page, message string, data gin.H) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	if data == nil {
		data = gin.H{}
	}
	data["error"] = message
	wc.render(c, http.StatusInternalServerError, page, data)
}

// Dashboard handles GET / and GET /dashboard
func (wc *WebController) Dashboard(c *gin.Context) {
	wc.render(c, http.StatusOK, "dashboard.html", gin.H{"title": "Dashboard"})
}

func (wc *WebController) ShowLogin(c *gin.Context) {
	wc.render(c, http.StatusOK, "login.html", gin.H{"title": "Log in"})
}

// Login handles POST /login
func (wc *WebController) Login(c *gin.Context) {
	var req models.LoginRequest
	if errs := validation.Bind(c, &req); errs != nil {
		wc.render(c, http.StatusBadRequest, "login.html", gin.H{"errors": errs.Messages(), "email": req.Email})
		return
	}

	user, err := wc.authService.Login(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		wc.render(c, http.StatusUnauthorized, "login.html", gin.H{"errors": []string{"Invalid email or password"}, "email": req.Email})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "login.html", "Something went wrong, please try again.", nil)
		return
	}

	if err := wc.session.Set(c, user.ID); err != nil {
		wc.renderInternal(c, err, "login.html", "Something went wrong, please try again.", nil)
		return
	}
	c.Redirect(http.StatusFound, "/pois")
}

func (wc *WebController) ShowSignup(c *gin.Context) {
	wc.render(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// Signup handles POST /signup
func (wc *WebController) Signup(c *gin.Context) {
	var req models.RegisterRequest
	if errs := validation.Bind(c, &req); errs != nil {
		wc.render(c, http.StatusBadRequest, "signup.html", gin.H{"errors": errs.Messages(), "form": &req})
		return
	}

	_, err := wc.authService.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrEmailTaken) {
		wc.render(c, http.StatusConflict, "signup.html", gin.H{"errors": []string{"Email is already registered!"}, "form": &req})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "signup.html", "Could not create account. Try again!", gin.H{"form": &req})
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Logout handles GET /logout
func (wc *WebController) Logout(c *gin.Context) {
	wc.session.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

// ListPlaces handles GET /pois
func (wc *WebController) ListPlaces(c *gin.Context) {
	var query models.PlaceQuery
	if errs := validation.BindQuery(c, &query); errs != nil {
		wc.render(c, http.StatusBadRequest, "poi-list.html", gin.H{"errors": errs.Messages(), "places": []*entities.Place{}})
		return
	}

	places, err := wc.placeService.List(c.Request.Context(), repository.PlaceFilter{Category: entities.Category(query.Category)})
	if err != nil {
		wc.renderInternal(c, err, "poi-list.html", "Could not load places!", nil)
		return
	}
	wc.render(c, http.StatusOK, "poi-list.html", gin.H{"title": "Places", "places": places, "category": query.Category})
}

// ownPlaces lists the caller's places of one category; no category lists nothing.
func (wc *WebController) ownPlaces(c *gin.Context, category string) ([]*entities.Place, error) {
	user, _ := middleware.CurrentUser(c)
	if !entities.Category(category).Valid() {
		return []*entities.Place{}, nil
	}
	return wc.placeService.List(c.Request.Context(), repository.PlaceFilter{
		Category:  entities.Category(category),
		CreatedBy: user.ID,
	})
}

// ShowAddPlace handles GET /pois/add
func (wc *WebController) ShowAddPlace(c *gin.Context) {
	category := c.Query("category")
	places, err := wc.ownPlaces(c, category)
	if err != nil {
		wc.renderInternal(c, err, "add-poi.html", "Could not load places!", nil)
		return
	}
	wc.render(c, http.StatusOK, "add-poi.html", gin.H{"title": "Add place", "places": places, "category": category})
}

// AddPlace handles POST /pois and POST /pois/add
func (wc *WebController) AddPlace(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req models.CreatePlaceRequest
	if errs := validation.Bind(c, &req); errs != nil {
		places, _ := wc.ownPlaces(c, req.Category)
		wc.render(c, http.StatusBadRequest, "add-poi.html", gin.H{
			"errors": errs.Messages(), "form": &req, "places": places, "category": req.Category,
		})
		return
	}

	if _, err := wc.placeService.Create(c.Request.Context(), user.ID, &req); err != nil {
		wc.renderInternal(c, err, "add-poi.html", "Could not add Point of Interest. Try again!", gin.H{"form": &req})
		return
	}
	c.Redirect(http.StatusSeeOther, "/pois/add?category="+url.QueryEscape(req.Category))
}

// ShowPlace handles GET /pois/:id and GET /added-places/:id
func (wc *WebController) ShowPlace(c *gin.Context) {
	place, err := wc.placeService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		wc.render(c, http.StatusNotFound, "place.html", gin.H{"error": "POI not found!"})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "place.html", "Could not load POI details!", nil)
		return
	}
	wc.render(c, http.StatusOK, "place.html", gin.H{"title": "Photo Album - " + place.Name, "place": place})
}

// DeletePlace handles POST /pois/delete/:id
func (wc *WebController) DeletePlace(c *gin.Context) {
	place, err := wc.placeService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		wc.render(c, http.StatusNotFound, "poi-list.html", gin.H{"error": "POI not found", "places": []*entities.Place{}})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "poi-list.html", "Could not delete POI", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/pois/add?category="+url.QueryEscape(string(place.Category)))
}

// UploadImages handles POST /pois/:id/upload
func (wc *WebController) UploadImages(c *gin.Context) {
	id := c.Param("id")
	files, status, err := uploadedFiles(c)
	if err != nil {
		if status == http.StatusRequestEntityTooLarge {
			wc.render(c, status, "place.html", gin.H{"error": "Images must not exceed 20 MB in total"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/added-places/"+id)
		return
	}

	_, err = wc.mediaService.Upload(c.Request.Context(), id, files)
	if errors.Is(err, repository.ErrNotFound) {
		wc.render(c, http.StatusNotFound, "place.html", gin.H{"error": "POI not found!"})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "place.html", "Failed to upload images", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/added-places/"+id)
}

// DeleteImage handles GET /pois/:id/images/:filename/delete
func (wc *WebController) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	_, err := wc.mediaService.DeleteImage(c.Request.Context(), id, c.Param("filename"))
	if errors.Is(err, repository.ErrNotFound) {
		wc.render(c, http.StatusNotFound, "place.html", gin.H{"error": "POI not found!"})
		return
	}
	if err != nil {
		wc.renderInternal(c, err, "place.html", "Failed to delete image", nil)
		return
	}
	c.Redirect(http.StatusFound, "/added-places/"+id)
}

// ToggleFavourite handles POST /pois/:id/favourite and returns to the referring page
func (wc *WebController) ToggleFavourite(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if _, err := wc.userService.ToggleFavourite(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		wc.renderInternal(c, err, "poi-list.html", "Could not update favourites", gin.H{"places": []*entities.Place{}})
		return
	}
	c.Redirect(http.StatusSeeOther, localReferrer(c, "/pois"))
}

// localReferrer returns the path of a same-host Referer, or fallback.
func localReferrer(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// Favourites handles GET /favourites
func (wc *WebController) Favourites(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	places, err := wc.userService.Favourites(c.Request.Context(), user.ID)
	if err != nil {
		wc.renderInternal(c, err, "favourites.html", "Could not load favourites", gin.H{"places": []*entities.Place{}})
		return
	}
	wc.render(c, http.StatusOK, "favourites.html", gin.H{"title": "My Favourite Places", "places": places})
}
