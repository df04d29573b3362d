// Package validation turns request payloads into typed values or a list of
// field-level violations. It plugs custom rules into gin's go-playground
// validator so that `binding:` tags on the request models are the schemas.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"explorer-be/internal/entities"
	"explorer-be/internal/models"
)

// Cause is the machine-readable reason a field was rejected.
type Cause string

const (
	CauseRequired Cause = "required"
	CauseType     Cause = "type"
	CauseRange    Cause = "range"
	CauseEnum     Cause = "enum"
	CauseFormat   Cause = "format"
)

// Violation describes one rejected field.
type Violation struct {
	Field   string `json:"field"`
	Cause   Cause  `json:"cause"`
	Message string `json:"message"`
}

// Errors is the full list of violations for one payload.
type Errors struct {
	Violations []Violation
}

func (e *Errors) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return strings.Join(messages, "; ")
}

// Messages returns the human-readable message of each violation.
func (e *Errors) Messages() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Message
	}
	return out
}

var setupOnce sync.Once

// engine returns gin's validator with the custom rules registered.
func engine() *validator.Validate {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	setupOnce.Do(func() {
		if v == nil {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return entities.Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("float", func(fl validator.FieldLevel) bool {
			_, err := models.Coordinate(fl.Field().String()).Float64()
			return err == nil
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := models.ParseVisitDate(fl.Field().String())
			return err == nil
		})
	})
	return v
}

// fieldName reports fields by their json name, falling back to the form name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Bind decodes the request body (JSON or form) into obj and validates it.
func Bind(c *gin.Context, obj any) *Errors {
	engine()
	if err := c.ShouldBind(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// BindQuery decodes and validates the query string into obj.
func BindQuery(c *gin.Context, obj any) *Errors {
	engine()
	if err := c.ShouldBindQuery(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Struct validates an already decoded value.
func Struct(obj any) *Errors {
	v := engine()
	if v == nil {
		return nil
	}
	if err := v.Struct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts binding and validator errors into violations.
func Translate(err error) *Errors {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := &Errors{Violations: make([]Violation, 0, len(fieldErrs))}
		for _, fe := range fieldErrs {
			out.Violations = append(out.Violations, Violation{
				Field:   fe.Field(),
				Cause:   causeOf(fe.Tag()),
				Message: messageFor(fe.Field(), fe.Tag(), fe.Param()),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &Errors{Violations: []Violation{{
			Field:   typeErr.Field,
			Cause:   CauseType,
			Message: messageFor(typeErr.Field, "type", jsonKind(typeErr.Type)),
		}}}
	}

	return &Errors{Violations: []Violation{{
		Cause:   CauseFormat,
		Message: "Invalid request body",
	}}}
}

func causeOf(tag string) Cause {
	switch tag {
	case "required":
		return CauseRequired
	case "min", "max", "len", "gt", "gte", "lt", "lte":
		return CauseRange
	case "category", "oneof":
		return CauseEnum
	case "float", "numeric", "number":
		return CauseType
	default:
		return CauseFormat
	}
}

var messages = map[string]string{
	"firstName.required": "First Name is required!",
	"firstName.min":      "First Name must be at least 3 characters long.",
	"firstName.max":      "First Name must be at most 30 characters long.",
	"lastName.required":  "Last Name is required!",
	"lastName.min":       "Last Name must be at least 3 characters long.",
	"lastName.max":       "Last Name must be at most 30 characters long.",
	"email.required":     "Email is required!",
	"email.email":        "Invalid email format!",
	"password.required":  "Password is required!",
	"password.min":       "Password should have at least 6 characters!",
	"name.required":      "Place name is required!",
	"name.min":           "Place name should have at least 2 characters!",
	"name.max":           "Place name should not exceed 100 characters!",
	"category.required":  "Category is required!",
	"category.category":  "Invalid category! Choose from Caves, Beaches, Mountains, Parks, Waterfalls, Cities.",
	"visitDate.required": "Visit date is required!",
	"visitDate.isodate":  "Invalid date format! Use YYYY-MM-DD.",
	"latitude.required":  "Latitude is required!",
	"latitude.float":     "Latitude must be a number!",
	"longitude.required": "Longitude is required!",
	"longitude.float":    "Longitude must be a number!",
}

// jsonKind names the JSON type a Go type decodes from.
func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "value"
	}
}

func messageFor(field, tag, param string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if tag == "type" {
		return fmt.Sprintf("%s must be a %s", field, param)
	}
	if param != "" {
		return fmt.Sprintf("%s failed %s=%s", field, tag, param)
	}
	return fmt.Sprintf("%s failed %s", field, tag)
}
