// Package websearch defines the port for web search.
package websearch

import "context"

// Searcher runs one web search query.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) (*Results, error)
}

// Results is the normalized outcome of one search.
type Results struct {
	Query          string          `json:"query"`
	Items          []Item          `json:"results"`
	KnowledgeGraph *KnowledgeGraph `json:"knowledge_graph,omitempty"`
	SearchTime     float64         `json:"search_time"`
}

// Item is one organic search hit.
type Item struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// KnowledgeGraph is the side panel summary some queries return.
type KnowledgeGraph struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Website     string            `json:"website,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}
