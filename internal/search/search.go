// Package search indexes the site's content (courses, faculty, results,
// videos) for the admin and public search box. Meilisearch is used when
// configured and healthy; an in-memory engine over the content store
// serves as the always-available fallback.
package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultCourse  ResultType = "course"
	ResultFaculty ResultType = "faculty"
	ResultStudent ResultType = "student"
	ResultVideo   ResultType = "video"
)

// Record is the indexed shape for every entity type.
type Record struct {
	ID    string     `json:"id"`
	Type  ResultType `json:"type"`
	Title string     `json:"title"`
	Body  string     `json:"body"`
}

// Result is a single search hit returned to the caller.
type Result struct {
	Type    ResultType `json:"type"`
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
}

// Query describes a search request.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Limit      int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}
