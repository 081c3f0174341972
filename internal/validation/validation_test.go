package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email  string `json:"email" validate:"required,email"`
	SiteID string `json:"siteId" validate:"required,slug"`
	Bio    string `json:"bio" validate:"max=5"`
	Skip   string `json:"-" validate:"required"`
}

func TestStructReportsJSONPaths(t *testing.T) {
	err := Struct(New(), signup{Email: "nope", SiteID: "Ana Ruiz", Bio: "too long", Skip: "x"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "siteId", Message: "must contain only lowercase letters, digits and single hyphens"},
		{Field: "bio", Message: "must be at most 5 characters"},
	}, verr.Fields)
	assert.True(t, verr.Has("siteId"))
	assert.False(t, verr.Has("password"))
}

func TestSlugRule(t *testing.T) {
	v := New()
	for _, ok := range []string{"ana", "bufete-ejemplo", "lic-ruiz-2"} {
		assert.NoError(t, Struct(v, signup{Email: "a@x.com", SiteID: ok, Skip: "x"}), ok)
	}
	for _, bad := range []string{"-ana", "ana-", "a--b", "Ana", "a_b", "a/b"} {
		assert.Error(t, Struct(v, signup{Email: "a@x.com", SiteID: bad, Skip: "x"}), bad)
	}
}

func TestSingle(t *testing.T) {
	err := Single("userMsg", "is required")
	assert.Equal(t, "invalid input: userMsg is required", err.Error())
}
