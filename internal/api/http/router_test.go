package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/api/http/handlers"
	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/cache"
	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/events"
	"github.com/lexpage/landing-service/internal/observability"
	"github.com/lexpage/landing-service/internal/ratelimit"
	"github.com/lexpage/landing-service/internal/service"
	"github.com/lexpage/landing-service/internal/testfixtures"
)

const anaBody = `{
	"profile": {"fullName": "Lic. Ana Ruiz"},
	"contact": {"email": "ana@x.com"},
	"cta": {"preferred": "whatsapp"},
	"seo": {"title": "T", "description": "D"}
}`

type testServer struct {
	app       *fiber.App
	users     *testfixtures.Users
	contents  *testfixtures.Contents
	completer *testfixtures.Completer
	authSvc   *service.AuthService
	redis     *miniredis.Miniredis
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.Config{
		App:  config.AppConfig{Name: "landing-service", Version: "test", RequestTimeoutSeconds: 5},
		HTTP: config.HTTPConfig{AllowedOrigins: "*", BodyLimitBytes: 1 << 20},
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	users := testfixtures.NewUsers()
	contents := testfixtures.NewContents()
	chats := testfixtures.NewChats()
	tickets := &testfixtures.Tickets{}
	metricEvents := &testfixtures.MetricEvents{Tickets: tickets, Chats: chats}
	completer := &testfixtures.Completer{Reply: "Hola, ¿en qué le ayudo?"}

	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewMetricsRecorder(dispatcher, metricEvents, metrics, logger).RegisterHandlers()

	contentSvc := service.NewContentService(service.ContentDependencies{
		Store: contents,
		Cache: cache.NewContentCache(client, time.Minute),
	})
	authSvc := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, ContentService: contentSvc})
	helpSvc := service.NewHelpService(service.HelpDependencies{
		FaqRepo:    &testfixtures.Faqs{},
		TicketRepo: tickets,
		ChatRepo:   chats,
		MetricRepo: metricEvents,
		Completer:  completer,
		Dispatcher: dispatcher,
	})

	var limiter *ratelimit.Limiter
	if rateLimit > 0 {
		limiter = ratelimit.NewLimiter(client, time.Minute, rateLimit)
	}

	app := NewApp(cfg, logger, metrics)
	RegisterMiddlewares(app, cfg, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("landing-service", "test", handlers.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() }}),
		Auth:           handlers.NewAuthHandler(authSvc),
		Content:        handlers.NewContentHandler(contentSvc),
		Help:           handlers.NewHelpHandler(helpSvc),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc),
		Limiter:        limiter,
		Metrics:        metrics,
		Logger:         logger,
	})

	return &testServer{app: app, users: users, contents: contents, completer: completer, authSvc: authSvc, redis: mr}
}

func (s *testServer) addAdmin(t *testing.T, email, password, siteID string) {
	t.Helper()
	hash, err := s.authSvc.Hasher().Hash(password)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), &domain.User{
		Email: email, PasswordHash: hash, Role: domain.RoleAdmin, SiteID: siteID,
	}))
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*nethttp.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, 0)

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := s.do(t, fiber.MethodGet, path, "", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"status":"ok"`)
	}

	resp, _ := s.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	s.redis.Close()
	resp, body := s.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", decodeError(t, body).Error.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 0)

	resp, body := s.do(t, fiber.MethodPut, "/api/content/admin/ana", "", anaBody)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, body).Error.Code)

	resp, _ = s.do(t, fiber.MethodGet, "/api/content/admin/ana", "garbage", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPutContentAppliesDefaultsAndPublishes(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "root@x.com", "secret123", "")
	token := s.login(t, "root@x.com", "secret123")

	resp, body := s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, anaBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var doc domain.SiteContentDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "ana", doc.SiteID)
	assert.Equal(t, 1, doc.Settings.LayoutOption)
	assert.Equal(t, "#0f172a", doc.Theme.Colors.Primary)
	assert.NotNil(t, doc.Specialties)
	assert.True(t, doc.Sections.ShowMap)
	assert.Contains(t, string(body), `"specialties":[]`)

	resp, body = s.do(t, fiber.MethodGet, "/api/content/public/ana", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"fullName":"Lic. Ana Ruiz"`)

	resp, _ = s.do(t, fiber.MethodGet, "/api/content/public/nobody", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPutContentSurvivesLaterRequests(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "root@x.com", "secret123", "")
	token := s.login(t, "root@x.com", "secret123")

	resp, put := s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, anaBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(put))

	// same-length ids reuse the request buffers the site id was read from
	resp, _ = s.do(t, fiber.MethodGet, "/api/content/public/zzz", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = s.do(t, fiber.MethodPut, "/api/content/admin/bob", token, strings.Replace(anaBody, "Ana", "Bob", 1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := s.contents.FindBySiteID(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", stored.SiteID)
	assert.Equal(t, "Lic. Ana Ruiz", stored.Profile.FullName)

	resp, admin := s.do(t, fiber.MethodGet, "/api/content/admin/ana", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(admin))
	assert.JSONEq(t, string(put), string(admin))

	resp, public := s.do(t, fiber.MethodGet, "/api/content/public/ana", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(public))
	assert.JSONEq(t, string(put), string(public))

	resp, bob := s.do(t, fiber.MethodGet, "/api/content/public/bob", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(bob), `"fullName":"Lic. Bob Ruiz"`)
}

func TestPutContentRejectsInvalidEmail(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "root@x.com", "secret123", "")
	token := s.login(t, "root@x.com", "secret123")

	body := strings.Replace(anaBody, "ana@x.com", "not-an-email", 1)
	resp, raw := s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, body)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	env := decodeError(t, raw)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "contact.email", env.Error.Details.Fields[0].Field)

	_, err := s.contents.FindBySiteID(context.Background(), "ana")
	assert.Error(t, err, "nothing is stored on validation failure")
}

func TestPutContentLastWriterWins(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "root@x.com", "secret123", "")
	token := s.login(t, "root@x.com", "secret123")

	first := strings.Replace(anaBody, `"T"`, `"Primera"`, 1)
	second := strings.Replace(anaBody, `"T"`, `"Segunda"`, 1)
	resp, _ := s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, first)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, fiber.MethodGet, "/api/content/public/ana", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, second)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := s.do(t, fiber.MethodGet, "/api/content/public/ana", "", "")
	assert.Contains(t, string(body), `"title":"Segunda"`, "public cache is refreshed on write")
	assert.Contains(t, string(body), `"__v":1`)
}

func TestSiteAdminCannotTouchOtherSites(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "ana@x.com", "secret123", "ana")
	token := s.login(t, "ana@x.com", "secret123")

	resp, _ := s.do(t, fiber.MethodPut, "/api/content/admin/ana", token, anaBody)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := s.do(t, fiber.MethodPut, "/api/content/admin/luis", token, anaBody)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, body).Error.Code)
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	s := newTestServer(t, 0)
	s.addAdmin(t, "root@x.com", "secret123", "")

	_, wrongPassword := s.do(t, fiber.MethodPost, "/api/auth/login", "", `{"email":"root@x.com","password":"nope"}`)
	resp, unknown := s.do(t, fiber.MethodPost, "/api/auth/login", "", `{"email":"ghost@x.com","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, string(wrongPassword), string(unknown))
}

func TestSignupMeLogout(t *testing.T) {
	s := newTestServer(t, 0)
	payload := `{"email":"luis@x.com","password":"secret123","siteId":"luis","fullName":"Lic. Luis Pérez","targetCity":"Puebla"}`

	resp, body := s.do(t, fiber.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var signup struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
		User  struct {
			Email  string `json:"email"`
			SiteID string `json:"siteId"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &signup))
	assert.True(t, signup.OK)
	assert.Equal(t, "luis", signup.User.SiteID)

	resp, body = s.do(t, fiber.MethodGet, "/api/auth/me", signup.Token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"email":"luis@x.com"`)

	resp, body = s.do(t, fiber.MethodGet, "/api/content/public/luis", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Puebla")

	resp, body = s.do(t, fiber.MethodPost, "/api/auth/signup", "", payload)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, body).Error.Code)

	resp, body = s.do(t, fiber.MethodPost, "/api/auth/logout", signup.Token, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestHelpDeskFlow(t *testing.T) {
	s := newTestServer(t, 0)

	resp, body := s.do(t, fiber.MethodPost, "/api/help/chat/session", "", "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var session struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(body, &session))

	resp, body = s.do(t, fiber.MethodPost, "/api/help/chat/message", "", `{"sessionId":"`+session.SessionID+`","userMsg":"Hola"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"reply":"Hola, ¿en qué le ayudo?"}`, string(body))

	_, body = s.do(t, fiber.MethodGet, "/api/help/chat/"+session.SessionID, "", "")
	var history []domain.ChatMessage
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Len(t, history, 2)

	s.completer.Err = errors.New("boom")
	resp, body = s.do(t, fiber.MethodPost, "/api/help/chat/message", "", `{"sessionId":"`+session.SessionID+`","userMsg":"¿Sigue ahí?"}`)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UPSTREAM_ERROR", decodeError(t, body).Error.Code)

	resp, _ = s.do(t, fiber.MethodPost, "/api/help/ticket", "", `{"name":"Luis","email":"luis@x.com","message":"Ayuda"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = s.do(t, fiber.MethodGet, "/api/help/faq?q=divorcio", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = s.do(t, fiber.MethodGet, "/api/help/metrics/summary", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	s.addAdmin(t, "root@x.com", "secret123", "")
	token := s.login(t, "root@x.com", "secret123")
	resp, body = s.do(t, fiber.MethodGet, "/api/help/metrics/summary", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"totalFaqViews":1,"totalTickets":1,"totalChats":1,"totalMessages":3}`, string(body))
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := s.do(t, fiber.MethodGet, "/api/content/public/nobody", "", "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
	resp, body := s.do(t, fiber.MethodGet, "/api/content/public/nobody", "", "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, body).Error.Code)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))

	resp, _ = s.do(t, fiber.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "health checks are not limited")
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t, 0)
	resp, body := s.do(t, fiber.MethodGet, "/api/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, fiber.MethodGet, "/health", "", "")
	resp, body := s.do(t, fiber.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
