package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpage/landing-service/internal/cache"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/testfixtures"
	"github.com/lexpage/landing-service/internal/validation"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

const anaBody = `{
	"profile": {"fullName": "Lic. Ana Ruiz"},
	"contact": {"email": "ana@x.com"},
	"cta": {"preferred": "whatsapp"},
	"seo": {"title": "T", "description": "D"}
}`

var (
	superAdmin = &domain.Principal{ID: "u-root", Role: domain.RoleAdmin}
	anaAdmin   = &domain.Principal{ID: "u-ana", Role: domain.RoleAdmin, SiteID: "ana"}
)

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
	return de
}

func newContentService(t *testing.T) (*ContentService, *testfixtures.Contents, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := testfixtures.NewContents()
	svc := NewContentService(ContentDependencies{
		Store: store,
		Cache: cache.NewContentCache(client, time.Minute),
	})
	return svc, store, s
}

func TestPutAdminAppliesDefaultsAndStores(t *testing.T) {
	svc, store, _ := newContentService(t)
	ctx := context.Background()

	doc, err := svc.PutAdmin(ctx, anaAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)
	assert.Equal(t, "ana", doc.SiteID)
	assert.Equal(t, "#0f172a", doc.Theme.Colors.Primary)
	assert.Empty(t, doc.Services)
	assert.NotNil(t, doc.Services)
	assert.True(t, doc.Sections.ShowMap)
	assert.Equal(t, 1, store.Upserts)

	public, err := svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, doc.SiteContent, public.SiteContent)
}

func TestPutAdminRejectsInvalidWithoutWriting(t *testing.T) {
	svc, store, _ := newContentService(t)

	_, err := svc.PutAdmin(context.Background(), anaAdmin, "ana", []byte(`{
		"profile": {"fullName": "Lic. Ana Ruiz"},
		"contact": {"email": "not-an-email"},
		"cta": {"preferred": "whatsapp"},
		"seo": {"title": "T", "description": "D"}
	}`))
	de := requireCode(t, err, "VALIDATION_FAILED")
	assert.Equal(t, 400, de.HTTPStatus)

	fields, ok := de.Details["fields"].([]validation.FieldError)
	require.True(t, ok)
	assert.Equal(t, "contact.email", fields[0].Field)
	assert.Equal(t, 0, store.Upserts)
}

func TestPutAdminLastWriterWins(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	first := `{"profile":{"fullName":"Primero"},"contact":{"email":"a@x.com"},"cta":{"preferred":"call"},"seo":{"title":"T","description":"D"}}`
	second := `{"profile":{"fullName":"Segundo"},"contact":{"email":"a@x.com"},"cta":{"preferred":"agenda"},"seo":{"title":"T","description":"D"}}`

	_, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(first))
	require.NoError(t, err)
	stored, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)

	got, err := svc.GetAdmin(ctx, superAdmin, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Segundo", got.Profile.FullName)
	assert.Equal(t, domain.CtaAgenda, got.CTA.Preferred)
}

func TestPutAdminRefreshesPublicCache(t *testing.T) {
	svc, _, s := newContentService(t)
	ctx := context.Background()

	_, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)
	_, err = svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, s.Exists("content:public:ana"))

	_, err = svc.PutAdmin(ctx, superAdmin, "ana", []byte(`{"profile":{"fullName":"Nuevo"},"contact":{"email":"a@x.com"},"cta":{"preferred":"call"},"seo":{"title":"T","description":"D"}}`))
	require.NoError(t, err)
	cached, err := s.Get("content:public:ana")
	require.NoError(t, err)
	assert.Contains(t, cached, `"fullName":"Nuevo"`)

	public, err := svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", public.Profile.FullName)
}

func TestSlowPublicReadCannotRestoreReplacedContent(t *testing.T) {
	svc, _, s := newContentService(t)
	ctx := context.Background()

	old, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)
	_, err = svc.PutAdmin(ctx, superAdmin, "ana", []byte(`{"profile":{"fullName":"Nuevo"},"contact":{"email":"a@x.com"},"cta":{"preferred":"call"},"seo":{"title":"T","description":"D"}}`))
	require.NoError(t, err)

	// a reader that loaded the first version before the write now caches it
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, cache.NewContentCache(client, time.Minute).Set(ctx, old))

	public, err := svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", public.Profile.FullName)
	assert.Equal(t, int64(1), public.Version)
}

func TestGetPublicServesFromCache(t *testing.T) {
	svc, store, _ := newContentService(t)
	ctx := context.Background()

	_, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)
	_, err = svc.GetPublic(ctx, "ana")
	require.NoError(t, err)

	store.Err = errors.New("database down")
	doc, err := svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Lic. Ana Ruiz", doc.Profile.FullName)
}

func TestGetPublicWorksWithoutRedis(t *testing.T) {
	svc, _, s := newContentService(t)
	ctx := context.Background()
	_, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)

	s.Close()
	doc, err := svc.GetPublic(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", doc.SiteID)
}

func TestGetPublicNotFound(t *testing.T) {
	svc, _, _ := newContentService(t)
	_, err := svc.GetPublic(context.Background(), "nadie")
	requireCode(t, err, "NOT_FOUND")

	_, err = svc.GetPublic(context.Background(), "  ")
	requireCode(t, err, "NOT_FOUND")
}

func TestTenantBinding(t *testing.T) {
	svc, store, _ := newContentService(t)
	ctx := context.Background()

	_, err := svc.PutAdmin(ctx, anaAdmin, "luis", []byte(anaBody))
	requireCode(t, err, "FORBIDDEN")
	assert.Equal(t, 0, store.Upserts)

	_, err = svc.GetAdmin(ctx, anaAdmin, "luis")
	requireCode(t, err, "FORBIDDEN")

	_, err = svc.GetAdmin(ctx, nil, "ana")
	requireCode(t, err, "UNAUTHORIZED")

	_, err = svc.GetAdmin(ctx, anaAdmin, "ana")
	requireCode(t, err, "NOT_FOUND")
}

func TestCreateInitialRefusesExistingSite(t *testing.T) {
	svc, _, _ := newContentService(t)
	ctx := context.Background()

	_, err := svc.PutAdmin(ctx, superAdmin, "ana", []byte(anaBody))
	require.NoError(t, err)

	doc := domain.SiteContent{
		SiteID:   "ana",
		Profile:  domain.Profile{FullName: "Otro"},
		Contact:  domain.Contact{Email: "otro@x.com"},
		CTA:      domain.CTA{Preferred: domain.CtaCall},
		SEO:      domain.SEO{Title: "T", Description: "D"},
		Settings: domain.Settings{LayoutOption: 1},
	}
	_, err = svc.CreateInitial(ctx, doc)
	requireCode(t, err, "CONFLICT")

	exists, err := svc.Exists(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, exists)
}
