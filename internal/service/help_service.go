package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/events"
	"github.com/lexpage/landing-service/internal/llm"
	"github.com/lexpage/landing-service/internal/repository"
	"github.com/lexpage/landing-service/internal/validation"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// Help desk limits.
const (
	DefaultFaqPageSize = 10
	MaxFaqPageSize     = 50
	MaxChatMessageLen  = 2000
	FallbackReply      = "Lo siento, no tengo respuesta."
)

// FaqSearcher is an optional full-text index over FAQs.
type FaqSearcher interface {
	Healthy() bool
	Search(query string, limit, offset int) ([]string, error)
	IndexFaq(faq domain.Faq) error
}

// FaqQuery describes a paged FAQ lookup.
type FaqQuery struct {
	Q        string
	Page     int
	PageSize int
}

// FaqInput is the admin payload for a new FAQ.
type FaqInput struct {
	Question string   `json:"question" validate:"required,max=500"`
	Answer   string   `json:"answer" validate:"required,max=5000"`
	Tags     []string `json:"tags" validate:"max=20,dive,max=50"`
}

// TicketInput is the public contact form payload.
type TicketInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// HelpService implements FAQ search, ticket intake and the assistant chat.
type HelpService struct {
	faqs       repository.FaqRepository
	tickets    repository.HelpTicketRepository
	chats      repository.ChatRepository
	metrics    repository.MetricEventRepository
	searcher   FaqSearcher
	completer  llm.Completer
	dispatcher events.Dispatcher
	validate   *validator.Validate
	logger     *zap.Logger
	onUpstream func(provider string)
}

// HelpDependencies bundles collaborators for the help service.
type HelpDependencies struct {
	FaqRepo         repository.FaqRepository
	TicketRepo      repository.HelpTicketRepository
	ChatRepo        repository.ChatRepository
	MetricRepo      repository.MetricEventRepository
	Searcher        FaqSearcher
	Completer       llm.Completer
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	UpstreamFailure func(provider string)
}

// NewHelpService constructs the service. Searcher may be nil.
func NewHelpService(deps HelpDependencies) *HelpService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	onUpstream := deps.UpstreamFailure
	if onUpstream == nil {
		onUpstream = func(string) {}
	}
	return &HelpService{
		faqs:       deps.FaqRepo,
		tickets:    deps.TicketRepo,
		chats:      deps.ChatRepo,
		metrics:    deps.MetricRepo,
		searcher:   deps.Searcher,
		completer:  deps.Completer,
		dispatcher: dispatcher,
		validate:   validation.New(),
		logger:     logger,
		onUpstream: onUpstream,
	}
}

// SearchFaqs returns one page of FAQs matching q.
func (s *HelpService) SearchFaqs(ctx context.Context, query FaqQuery) ([]domain.Faq, error) {
	q := strings.TrimSpace(query.Q)
	page, size := normalizePage(query.Page, query.PageSize)
	offset := (page - 1) * size

	faqs, err := s.searchFaqs(ctx, q, size, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventFaqViewed, map[string]any{"query": strings.Clone(q)}))
	return faqs, nil
}

func (s *HelpService) searchFaqs(ctx context.Context, q string, limit, offset int) ([]domain.Faq, error) {
	if q != "" && s.searcher != nil && s.searcher.Healthy() {
		ids, err := s.searcher.Search(q, limit, offset)
		if err == nil {
			if len(ids) == 0 {
				return []domain.Faq{}, nil
			}
			return s.faqs.GetByIDs(ctx, ids)
		}
		s.logger.Warn("faq index search failed, falling back to database", zap.Error(err))
	}
	return s.faqs.Search(ctx, q, limit, offset)
}

// CreateFaq stores a FAQ and hands it to the index in the background.
func (s *HelpService) CreateFaq(ctx context.Context, input FaqInput) (*domain.Faq, error) {
	input.Question = strings.TrimSpace(input.Question)
	input.Answer = strings.TrimSpace(input.Answer)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, validationFailed("invalid faq", err)
	}

	faq := &domain.Faq{Question: input.Question, Answer: input.Answer, Tags: cleanTags(input.Tags)}
	if err := s.faqs.Create(ctx, faq); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.searcher != nil {
		indexed := *faq
		go func() {
			if err := s.searcher.IndexFaq(indexed); err != nil {
				s.logger.Warn("faq not indexed", zap.String("faq_id", indexed.ID), zap.Error(err))
			}
		}()
	}
	return faq, nil
}

// CreateTicket stores a contact request with status open.
func (s *HelpService) CreateTicket(ctx context.Context, input TicketInput) (*domain.HelpTicket, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, validationFailed("invalid ticket", err)
	}

	ticket := &domain.HelpTicket{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
		Status:  domain.HelpTicketOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventTicketCreated, map[string]any{
		"ticketId": ticket.ID,
		"email":    ticket.Email,
	}))
	return ticket, nil
}

// CreateChatSession opens a new conversation and returns its id.
func (s *HelpService) CreateChatSession(ctx context.Context, userID *string) (*domain.ChatSession, error) {
	session := &domain.ChatSession{ID: uuid.NewString(), UserID: userID}
	if err := s.chats.CreateSession(ctx, session); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventChatStarted, map[string]any{"sessionId": session.ID}))
	return session, nil
}

// SendChatMessage stores the user's message, asks the assistant for a reply
// over the whole transcript and stores that too. When the provider fails the
// user's message stays recorded.
func (s *HelpService) SendChatMessage(ctx context.Context, sessionID, userMsg string) (string, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return "", err
	}

	userMsg = strings.TrimSpace(userMsg)
	if userMsg == "" {
		return "", validationFailed("invalid chat message", validation.Single("userMsg", "is required"))
	}
	if utf8.RuneCountInString(userMsg) > MaxChatMessageLen {
		return "", validationFailed("invalid chat message", validation.Single("userMsg", "must be at most 2000 characters"))
	}

	if err := s.chats.AppendMessage(ctx, &domain.ChatMessage{
		SessionID: session.ID,
		Role:      domain.ChatRoleUser,
		Content:   userMsg,
	}); err != nil {
		return "", apperrors.NewInternalError(err)
	}

	history, err := s.chats.ListMessages(ctx, session.ID)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	completion, err := s.complete(ctx, history)
	if err != nil {
		s.onUpstream("anthropic")
		fields := []zap.Field{zap.String("session_id", session.ID), zap.Error(err)}
		var upErr *llm.UpstreamError
		if errors.As(err, &upErr) {
			fields = append(fields, zap.Int("upstream_status", upErr.Status), zap.String("upstream_body", upErr.Body))
		}
		s.logger.Error("chat completion failed", fields...)
		return "", apperrors.NewUpstreamError("the assistant is unavailable, please try again later", err)
	}

	reply := completion.Text
	if reply == "" {
		reply = FallbackReply
	}
	assistant := &domain.ChatMessage{SessionID: session.ID, Role: domain.ChatRoleAssistant, Content: reply}
	if completion.OutputTokens > 0 {
		tokens := completion.OutputTokens
		assistant.Tokens = &tokens
	}
	if err := s.chats.AppendMessage(ctx, assistant); err != nil {
		return "", apperrors.NewInternalError(err)
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventChatMessageSent, map[string]any{
		"sessionId": session.ID,
		"userMsg":   userMsg,
	}))
	return reply, nil
}

func (s *HelpService) complete(ctx context.Context, history []domain.ChatMessage) (llm.Completion, error) {
	if s.completer == nil {
		return llm.Completion{}, llm.ErrNotConfigured
	}
	return s.completer.Complete(ctx, history)
}

// ChatHistory returns the ordered transcript; unknown sessions have none.
func (s *HelpService) ChatHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return []domain.ChatMessage{}, nil
	}
	messages, err := s.chats.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return messages, nil
}

// MetricsSummary aggregates help desk usage.
func (s *HelpService) MetricsSummary(ctx context.Context) (domain.MetricsSummary, error) {
	summary, err := s.metrics.Summary(ctx)
	if err != nil {
		return domain.MetricsSummary{}, apperrors.NewInternalError(err)
	}
	return summary, nil
}

func (s *HelpService) session(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, apperrors.NewNotFound("chat session", nil)
	}
	session, err := s.chats.GetSession(ctx, id.String())
	if err != nil {
		return nil, storeError("chat session", err)
	}
	return session, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultFaqPageSize
	}
	if size > MaxFaqPageSize {
		size = MaxFaqPageSize
	}
	return page, size
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
