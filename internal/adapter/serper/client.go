// Package serper provides web search via the Serper API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentmesh/agentmesh/internal/port/websearch"
	"github.com/agentmesh/agentmesh/internal/resilience"
)

// maxResults is the API's hard limit per query.
const maxResults = 30

// Client talks to the Serper search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a Serper client. apiKey may be empty; searches then
// return a single placeholder result pointing at the missing
// configuration instead of failing, so downstream steps keep flowing.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Search runs one web search query.
func (c *Client) Search(ctx context.Context, query string, numResults int) (*websearch.Results, error) {
	if c.apiKey == "" {
		return &websearch.Results{
			Query: query,
			Items: []websearch.Item{{
				Title:    "Search API Configuration Required",
				Snippet:  "SERPER_API_KEY not configured. Set your Serper API key to enable web search.",
				Position: 1,
			}},
		}, nil
	}

	if numResults > maxResults {
		numResults = maxResults
	}

	body, err := json.Marshal(map[string]any{"q": query, "num": numResults})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var raw searchResponse
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-KEY", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("serper API error %d: %s", resp.StatusCode, string(data))
		}
		return json.Unmarshal(data, &raw)
	}

	if c.breaker != nil {
		err = c.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}

	return raw.normalize(query, numResults), nil
}

type searchResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
	AnswerBox *struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Answer  string `json:"answer"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Website     string            `json:"website"`
		Attributes  map[string]string `json:"attributes"`
	} `json:"knowledgeGraph"`
	SearchTime float64 `json:"searchTime"`
}

// normalize maps the raw API shape onto the websearch port types.
// Organic results win; an answer box alone still yields one item.
func (r *searchResponse) normalize(query string, numResults int) *websearch.Results {
	out := &websearch.Results{
		Query:      query,
		SearchTime: r.SearchTime,
	}

	for i, item := range r.Organic {
		if i >= numResults {
			break
		}
		out.Items = append(out.Items, websearch.Item{
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: item.Position,
		})
	}

	if len(out.Items) == 0 && r.AnswerBox != nil {
		snippet := r.AnswerBox.Snippet
		if snippet == "" {
			snippet = r.AnswerBox.Answer
		}
		title := r.AnswerBox.Title
		if title == "" {
			title = "Direct Answer"
		}
		out.Items = append(out.Items, websearch.Item{
			Title:    title,
			Link:     r.AnswerBox.Link,
			Snippet:  snippet,
			Position: 1,
		})
	}

	if r.KnowledgeGraph != nil {
		out.KnowledgeGraph = &websearch.KnowledgeGraph{
			Title:       r.KnowledgeGraph.Title,
			Description: r.KnowledgeGraph.Description,
			Website:     r.KnowledgeGraph.Website,
			Attributes:  r.KnowledgeGraph.Attributes,
		}
	}

	return out
}
