package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lexpage/landing-service/internal/domain"
)

func TestContentFieldsCoverEveryTopLevelKey(t *testing.T) {
	doc := domain.SiteContent{
		SiteID:  "ana",
		Profile: domain.Profile{FullName: "Lic. Ana Ruiz"},
		Contact: domain.Contact{Email: "ana@x.com"},
		CTA:     domain.CTA{Preferred: domain.CtaCall},
	}

	fields, err := contentFields(doc)
	require.NoError(t, err)

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"siteId", "profile", "contact", "specialties", "services", "faqs", "testimonials",
		"schedule", "cta", "seo", "theme", "legal", "settings", "sections",
	}, keys)
	assert.NotContains(t, keys, "createdAt")
	assert.NotContains(t, keys, "__v")
}

func TestMapMongoError(t *testing.T) {
	assert.ErrorIs(t, mapMongoError(mongo.ErrNoDocuments), ErrNotFound)
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.ErrorIs(t, mapMongoError(dup), ErrDuplicate)
}
