package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorer-be/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func causesByField(errs *Errors) map[string]Cause {
	out := make(map[string]Cause, len(errs.Violations))
	for _, v := range errs.Violations {
		out[v.Field] = v.Cause
	}
	return out
}

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestStruct_ValidPlace(t *testing.T) {
	req := models.CreatePlaceRequest{
		Name:      "Eiffel Tower",
		Category:  "Cities",
		VisitDate: "2024-03-20",
		Latitude:  "48.8584",
		Longitude: "2.2945",
	}
	assert.Nil(t, Struct(&req))
}

func TestStruct_PlaceViolations(t *testing.T) {
	req := models.CreatePlaceRequest{
		Name:      "E",
		Category:  "City",
		VisitDate: "20/03/2024",
		Longitude: "east",
	}

	errs := Struct(&req)
	require.NotNil(t, errs)

	got := causesByField(errs)
	assert.Equal(t, CauseRange, got["name"])
	assert.Equal(t, CauseEnum, got["category"])
	assert.Equal(t, CauseFormat, got["visitDate"])
	assert.Equal(t, CauseRequired, got["latitude"])
	assert.Equal(t, CauseType, got["longitude"])
	assert.Contains(t, errs.Messages(), "Invalid category! Choose from Caves, Beaches, Mountains, Parks, Waterfalls, Cities.")
}

func TestStruct_RegisterViolations(t *testing.T) {
	req := models.RegisterRequest{
		FirstName: "Lu",
		LastName:  strings.Repeat("b", 31),
		Email:     "not-an-email",
		Password:  "123",
	}

	errs := Struct(&req)
	require.NotNil(t, errs)

	got := causesByField(errs)
	assert.Equal(t, CauseRange, got["firstName"])
	assert.Equal(t, CauseRange, got["lastName"])
	assert.Equal(t, CauseFormat, got["email"])
	assert.Equal(t, CauseRange, got["password"])
	assert.Contains(t, errs.Error(), "Password should have at least 6 characters!")
}

func TestStruct_CredentialsOnlyNeedPasswordPresence(t *testing.T) {
	assert.Nil(t, Struct(&models.LoginRequest{Email: "a@example.com", Password: "x"}))

	errs := Struct(&models.LoginRequest{Email: "a@example.com"})
	require.NotNil(t, errs)
	assert.Equal(t, CauseRequired, causesByField(errs)["password"])
}

func TestBind_JSONTypeError(t *testing.T) {
	c := jsonContext(t, `{"name":123,"category":"Caves","visitDate":"2024-03-20","latitude":1,"longitude":2}`)

	var req models.CreatePlaceRequest
	errs := Bind(c, &req)
	require.NotNil(t, errs)
	require.Len(t, errs.Violations, 1)
	assert.Equal(t, "name", errs.Violations[0].Field)
	assert.Equal(t, CauseType, errs.Violations[0].Cause)
}

func TestBind_JSONZeroCoordinatesAccepted(t *testing.T) {
	c := jsonContext(t, `{"name":"Null Island","category":"Beaches","visitDate":"2024-03-20","latitude":0,"longitude":0}`)

	var req models.CreatePlaceRequest
	require.Nil(t, Bind(c, &req))

	place, err := req.ToPlace("u1")
	require.NoError(t, err)
	assert.Zero(t, place.Latitude)
}

func TestBind_MalformedBody(t *testing.T) {
	c := jsonContext(t, `{"name":`)

	var req models.CreatePlaceRequest
	errs := Bind(c, &req)
	require.NotNil(t, errs)
	assert.Equal(t, CauseFormat, errs.Violations[0].Cause)
}

func TestBind_FormEmptyLatitudeIsMissing(t *testing.T) {
	form := url.Values{
		"name":      {"Cliffs of Moher"},
		"category":  {"Mountains"},
		"visitDate": {"2024-05-01"},
		"latitude":  {""},
		"longitude": {"-9.42"},
	}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var req models.CreatePlaceRequest
	errs := Bind(c, &req)
	require.NotNil(t, errs)
	assert.Equal(t, CauseRequired, causesByField(errs)["latitude"])
}

func TestBindQuery_Category(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?category=Parks", nil)
	var ok models.PlaceQuery
	require.Nil(t, BindQuery(c, &ok))
	assert.Equal(t, "Parks", ok.Category)

	c.Request = httptest.NewRequest(http.MethodGet, "/?category=Lakes", nil)
	var bad models.PlaceQuery
	errs := BindQuery(c, &bad)
	require.NotNil(t, errs)
	assert.Equal(t, CauseEnum, causesByField(errs)["category"])

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	var none models.PlaceQuery
	assert.Nil(t, BindQuery(c, &none))
}

func TestStruct_ExponentCoordinatesAccepted(t *testing.T) {
	req := models.CreatePlaceRequest{
		Name:      "Inch Beach",
		Category:  "Beaches",
		VisitDate: "2023-07-01",
		Latitude:  "1e-7",
		Longitude: "-9.97e1",
	}
	assert.Nil(t, Struct(&req))
}

func TestBind_JSONExponentCoordinates(t *testing.T) {
	c := jsonContext(t, `{"name":"Inch Beach","category":"Beaches","visitDate":"2023-07-01","latitude":1e-7,"longitude":-9.97e1}`)

	var req models.CreatePlaceRequest
	require.Nil(t, Bind(c, &req))

	place, err := req.ToPlace("u1")
	require.NoError(t, err)
	assert.InDelta(t, 1e-7, place.Latitude, 1e-15)
	assert.InDelta(t, -99.7, place.Longitude, 1e-9)
}

func TestBind_JSONWrongCoordinateTypes(t *testing.T) {
	for _, latitude := range []string{`"abc"`, `true`, `{}`} {
		c := jsonContext(t, `{"name":"Inch Beach","category":"Beaches","visitDate":"2023-07-01","latitude":`+latitude+`,"longitude":2}`)

		var req models.CreatePlaceRequest
		errs := Bind(c, &req)
		require.NotNil(t, errs, latitude)
		require.Len(t, errs.Violations, 1, latitude)
		assert.Equal(t, Violation{
			Field:   "latitude",
			Cause:   CauseType,
			Message: "Latitude must be a number!",
		}, errs.Violations[0], latitude)
	}
}

func TestBind_JSONTypeErrorNamesJSONKind(t *testing.T) {
	c := jsonContext(t, `{"name":true,"category":"Caves","visitDate":"2024-03-20","latitude":1,"longitude":2}`)

	var req models.CreatePlaceRequest
	errs := Bind(c, &req)
	require.NotNil(t, errs)
	assert.Equal(t, "name must be a string", errs.Violations[0].Message)
}
