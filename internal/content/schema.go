// Package content defines the SiteContent schema: its defaults, how request bodies are
// decoded over them and which fields are checked before a document may be stored.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/validation"
)

// FieldError and ValidationError are the shared validation failure types.
type (
	FieldError      = validation.FieldError
	ValidationError = validation.ValidationError
)

// Schema decodes and validates SiteContent documents. It is safe for concurrent use.
type Schema struct {
	validate *validator.Validate
}

// NewSchema builds a schema whose error paths use JSON field names.
func NewSchema() *Schema {
	return &Schema{validate: validation.New()}
}

// Parse decodes raw over the defaults for siteID and validates the result.
// The siteID argument always overrides any siteId present in the body.
func (s *Schema) Parse(siteID string, raw []byte) (domain.SiteContent, error) {
	doc := Defaults(siteID)
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return domain.SiteContent{}, decodeError(err)
		}
	}
	doc.SiteID = strings.TrimSpace(siteID)
	Normalize(&doc)
	if err := s.Validate(&doc); err != nil {
		return domain.SiteContent{}, err
	}
	return doc, nil
}

// Validate checks an already-built document. It does not apply defaults.
func (s *Schema) Validate(doc *domain.SiteContent) error {
	return validation.Struct(s.validate, doc)
}

// Normalize trims the required text fields and replaces nil collections with empty ones.
func Normalize(doc *domain.SiteContent) {
	doc.Profile.FullName = strings.TrimSpace(doc.Profile.FullName)
	doc.Contact.Email = strings.TrimSpace(doc.Contact.Email)
	doc.SEO.Title = strings.TrimSpace(doc.SEO.Title)
	doc.SEO.Description = strings.TrimSpace(doc.SEO.Description)

	colors := &doc.Theme.Colors
	colors.Primary = orDefault(colors.Primary, DefaultPrimaryColor)
	colors.Secondary = orDefault(colors.Secondary, DefaultSecondaryColor)
	colors.Background = orDefault(colors.Background, DefaultBackgroundColor)
	colors.Text = orDefault(colors.Text, DefaultTextColor)

	if doc.Specialties == nil {
		doc.Specialties = []domain.Specialty{}
	}
	if doc.Services == nil {
		doc.Services = []domain.Service{}
	}
	if doc.FAQs == nil {
		doc.FAQs = []domain.FAQ{}
	}
	if doc.Testimonials == nil {
		doc.Testimonials = []domain.Testimonial{}
	}
	if doc.Schedule == nil {
		doc.Schedule = []domain.ScheduleEntry{}
	}
	if doc.SEO.CityKeywords == nil {
		doc.SEO.CityKeywords = []string{}
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return validation.Single("body", "must be a JSON object")
		}
		return validation.Single(typeErr.Field, fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type)))
	}
	return validation.Single("body", "malformed JSON")
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
