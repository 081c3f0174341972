// Package search mirrors help-desk FAQs into Meilisearch for ranked full-text lookup.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/domain"
)

// ErrUnavailable is returned while the index is unreachable.
var ErrUnavailable = errors.New("search index unavailable")

// FaqRecord is the indexed shape of a Faq.
type FaqRecord struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
}

// FaqIndex implements FAQ search and indexing via Meilisearch.
type FaqIndex struct {
	client  meili.ServiceManager
	uid     string
	logger  *zap.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewFaqIndex connects to Meilisearch and starts a background health monitor.
// An unreachable server is not an error: callers check Healthy and fall back.
func NewFaqIndex(url, apiKey, uid string, logger *zap.Logger) *FaqIndex {
	idx := &FaqIndex{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		uid:    uid,
		logger: logger,
		done:   make(chan struct{}),
	}

	if _, err := idx.client.Health(); err != nil {
		logger.Warn("meilisearch unavailable", zap.String("url", url), zap.Error(err))
	} else {
		idx.healthy.Store(true)
		idx.configure()
	}

	go idx.healthLoop(10 * time.Second)
	return idx
}

func (i *FaqIndex) configure() {
	if _, err := i.client.CreateIndex(&meili.IndexConfig{Uid: i.uid, PrimaryKey: "id"}); err != nil {
		i.logger.Debug("create faq index (may already exist)", zap.String("index", i.uid), zap.Error(err))
	}
	searchable := []string{"question", "answer", "tags"}
	if _, err := i.client.Index(i.uid).UpdateSearchableAttributes(&searchable); err != nil {
		i.logger.Warn("update faq searchable attributes", zap.String("index", i.uid), zap.Error(err))
	}
}

func (i *FaqIndex) healthLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-i.done:
			return
		case <-ticker.C:
			_, err := i.client.Health()
			wasHealthy := i.healthy.Load()
			i.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				i.logger.Info("meilisearch recovered, reconfiguring faq index")
				i.configure()
			}
		}
	}
}

// Close stops the background health monitor.
func (i *FaqIndex) Close() {
	close(i.done)
}

// Healthy reports whether Meilisearch is reachable.
func (i *FaqIndex) Healthy() bool {
	return i.healthy.Load()
}

// Search returns the ids of matching FAQs in rank order.
func (i *FaqIndex) Search(query string, limit, offset int) ([]string, error) {
	if !i.healthy.Load() {
		return nil, ErrUnavailable
	}

	resp, err := i.client.Index(i.uid).Search(query, &meili.SearchRequest{
		Limit:                int64(limit),
		Offset:               int64(offset),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		i.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if id := hitID(hit); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// IndexFaq adds or replaces one FAQ in the index.
func (i *FaqIndex) IndexFaq(faq domain.Faq) error {
	if !i.healthy.Load() {
		return ErrUnavailable
	}
	_, err := i.client.Index(i.uid).AddDocuments([]FaqRecord{RecordFromFaq(faq)}, nil)
	return err
}

// RecordFromFaq projects a Faq into its indexed form.
func RecordFromFaq(faq domain.Faq) FaqRecord {
	tags := faq.Tags
	if tags == nil {
		tags = []string{}
	}
	return FaqRecord{ID: faq.ID, Question: faq.Question, Answer: faq.Answer, Tags: tags}
}

func hitID(hit meili.Hit) string {
	raw, ok := hit["id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}
