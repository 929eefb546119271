package search

import (
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxContent = "mdcsite_content"

// Meili implements Searcher via Meilisearch, all content types in one
// index filtered by the type attribute.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the index. The
// caller proceeds without it when the instance is unreachable; a health
// loop re-enables it if it comes back.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxContent,
		PrimaryKey: "uid",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxContent, err)
	}

	index := m.client.Index(idxContent)
	filterable := []interface{}{"type"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("search: update filterable attrs: %v", err)
	}
	searchable := []string{"title", "body"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs: %v", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

type meiliDoc struct {
	UID   string `json:"uid"`
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func toDoc(record Record) meiliDoc {
	return meiliDoc{
		UID:   string(record.Type) + "-" + record.ID,
		ID:    record.ID,
		Type:  string(record.Type),
		Title: record.Title,
		Body:  record.Body,
	}
}

// IndexRecords pushes a batch of records into the index.
func (m *Meili) IndexRecords(records []Record) error {
	docs := make([]meiliDoc, 0, len(records))
	for _, record := range records {
		docs = append(docs, toDoc(record))
	}
	if _, err := m.client.Index(idxContent).AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("index records: %w", err)
	}
	return nil
}

// DeleteRecord removes one record from the index.
func (m *Meili) DeleteRecord(rtyp ResultType, id string) error {
	if _, err := m.client.Index(idxContent).DeleteDocument(string(rtyp)+"-"+id, nil); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Search queries the content index.
func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	request := &meili.SearchRequest{
		Limit:            limit,
		AttributesToCrop: []string{"body"},
		CropLength:       30,
	}
	if q.FilterType != "" {
		request.Filter = fmt.Sprintf("type = %q", q.FilterType)
	}

	resp, err := m.client.Index(idxContent).Search(q.Text, request)
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, hitToResult(hit))
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func hitToResult(hit meili.Hit) Result {
	return Result{
		Type:    ResultType(decodeString(hit, "type")),
		ID:      decodeString(hit, "id"),
		Title:   decodeString(hit, "title"),
		Snippet: decodeString(hit, "body"),
	}
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
