// Package testfixtures provides in-memory stand-ins for the Postgres repositories
// and the external providers, for use in tests.
package testfixtures

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexpage/landing-service/internal/domain"
	"github.com/lexpage/landing-service/internal/llm"
	"github.com/lexpage/landing-service/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	byID  map[string]domain.User
	Err   error
	Calls int
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{byID: map[string]domain.User{}}
}

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range u.byID {
		if existing.Email == user.Email || (user.SiteID != "" && existing.SiteID == user.SiteID) {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	u.byID[user.ID] = *user
	return nil
}

func (u *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Err != nil {
		return nil, u.Err
	}
	user, ok := u.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls++
	if u.Err != nil {
		return nil, u.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range u.byID {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) GetBySiteID(_ context.Context, siteID string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.byID {
		if user.SiteID == siteID {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) Delete(_ context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(u.byID, id)
	return nil
}

// Contents is an in-memory repository.SiteContentRepository.
type Contents struct {
	mu     sync.Mutex
	bySite map[string]domain.SiteContentDocument
	Err    error
	// CreateErr fails Create only, as when another writer claims the site
	// between the existence check and the insert.
	CreateErr error
	Upserts   int
}

// NewContents returns an empty store.
func NewContents() *Contents {
	return &Contents{bySite: map[string]domain.SiteContentDocument{}}
}

func (c *Contents) FindBySiteID(_ context.Context, siteID string) (*domain.SiteContentDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	doc, ok := c.bySite[siteID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (c *Contents) Upsert(_ context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	c.Upserts++
	now := time.Now().UTC()
	stored, ok := c.bySite[doc.SiteID]
	if !ok {
		stored = domain.SiteContentDocument{CreatedAt: now}
	} else {
		stored.Version++
	}
	stored.SiteContent = doc
	stored.UpdatedAt = now
	c.bySite[doc.SiteID] = stored
	return &stored, nil
}

func (c *Contents) Create(_ context.Context, doc domain.SiteContent) (*domain.SiteContentDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	if c.CreateErr != nil {
		return nil, c.CreateErr
	}
	if _, ok := c.bySite[doc.SiteID]; ok {
		return nil, repository.ErrDuplicate
	}
	now := time.Now().UTC()
	stored := domain.SiteContentDocument{SiteContent: doc, CreatedAt: now, UpdatedAt: now}
	c.bySite[doc.SiteID] = stored
	return &stored, nil
}

// Faqs is an in-memory repository.FaqRepository.
type Faqs struct {
	mu    sync.Mutex
	items []domain.Faq
	// Searches counts calls to Search, i.e. database fallbacks.
	Searches int
}

func (f *Faqs) Create(_ context.Context, faq *domain.Faq) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	faq.ID = uuid.NewString()
	faq.CreatedAt = time.Now().UTC()
	if faq.Tags == nil {
		faq.Tags = []string{}
	}
	f.items = append(f.items, *faq)
	return nil
}

func (f *Faqs) Search(_ context.Context, query string, limit, offset int) ([]domain.Faq, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Searches++
	q := strings.ToLower(query)
	matched := []domain.Faq{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if q == "" || strings.Contains(strings.ToLower(f.items[i].Question), q) {
			matched = append(matched, f.items[i])
		}
	}
	if offset >= len(matched) {
		return []domain.Faq{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *Faqs) GetByIDs(_ context.Context, ids []string) ([]domain.Faq, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []domain.Faq{}
	for _, id := range ids {
		for _, faq := range f.items {
			if faq.ID == id {
				result = append(result, faq)
			}
		}
	}
	return result, nil
}

// Tickets is an in-memory repository.HelpTicketRepository.
type Tickets struct {
	mu    sync.Mutex
	Items []domain.HelpTicket
}

func (t *Tickets) Create(_ context.Context, ticket *domain.HelpTicket) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now().UTC()
	t.Items = append(t.Items, *ticket)
	return nil
}

// Chats is an in-memory repository.ChatRepository.
type Chats struct {
	mu       sync.Mutex
	sessions map[string]domain.ChatSession
	messages []domain.ChatMessage
}

// NewChats returns an empty store.
func NewChats() *Chats {
	return &Chats{sessions: map[string]domain.ChatSession{}}
}

func (c *Chats) CreateSession(_ context.Context, session *domain.ChatSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	session.CreatedAt = time.Now().UTC()
	c.sessions[session.ID] = *session
	return nil
}

func (c *Chats) GetSession(_ context.Context, id string) (*domain.ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (c *Chats) AppendMessage(_ context.Context, msg *domain.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.ID = strconv.Itoa(len(c.messages) + 1)
	msg.CreatedAt = time.Now().UTC()
	c.messages = append(c.messages, *msg)
	return nil
}

func (c *Chats) ListMessages(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := []domain.ChatMessage{}
	for _, msg := range c.messages {
		if msg.SessionID == sessionID {
			result = append(result, msg)
		}
	}
	return result, nil
}

// SessionCount reports how many sessions were opened.
func (c *Chats) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// MessageCount reports how many messages were stored across sessions.
func (c *Chats) MessageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// MetricEvents is an in-memory repository.MetricEventRepository. Summary counts
// the same sources as the Postgres query when Tickets and Chats are set.
type MetricEvents struct {
	mu      sync.Mutex
	Events  []domain.MetricEvent
	Err     error
	Tickets *Tickets
	Chats   *Chats
}

func (m *MetricEvents) Create(_ context.Context, event *domain.MetricEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	event.ID = strconv.Itoa(len(m.Events) + 1)
	event.CreatedAt = time.Now().UTC()
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MetricEvents) Summary(_ context.Context) (domain.MetricsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var summary domain.MetricsSummary
	for _, e := range m.Events {
		if e.Type == domain.MetricFaqViewed {
			summary.TotalFaqViews++
		}
	}
	if m.Tickets != nil {
		m.Tickets.mu.Lock()
		summary.TotalTickets = int64(len(m.Tickets.Items))
		m.Tickets.mu.Unlock()
	}
	if m.Chats != nil {
		summary.TotalChats = int64(m.Chats.SessionCount())
		summary.TotalMessages = int64(m.Chats.MessageCount())
	}
	return summary, nil
}

// Count returns how many events of the given type were stored.
func (m *MetricEvents) Count(eventType domain.MetricEventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// Completer is a scripted llm.Completer that records what it was sent.
type Completer struct {
	mu      sync.Mutex
	Reply   string
	Tokens  int
	Err     error
	History [][]domain.ChatMessage
}

func (c *Completer) Complete(_ context.Context, history []domain.ChatMessage) (llm.Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.History = append(c.History, append([]domain.ChatMessage(nil), history...))
	if c.Err != nil {
		return llm.Completion{}, c.Err
	}
	return llm.Completion{Text: c.Reply, OutputTokens: c.Tokens}, nil
}

// Searcher is a scripted FAQ index.
type Searcher struct {
	mu      sync.Mutex
	Up      bool
	IDs     []string
	Err     error
	Indexed chan domain.Faq
}

func (s *Searcher) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Up
}

func (s *Searcher) Search(string, int, int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.IDs, s.Err
}

func (s *Searcher) IndexFaq(faq domain.Faq) error {
	if s.Indexed != nil {
		s.Indexed <- faq
	}
	return nil
}
