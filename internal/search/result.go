package search

import "time"

// Result is one raw web hit as returned by a search engine.
type Result struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score,omitempty"`
	HasScore bool    `json:"-"`
}

// Response is the outcome of a single engine query.
type Response struct {
	Query    string        `json:"query"`
	Results  []Result      `json:"results"`
	Engine   string        `json:"engine"`
	Duration time.Duration `json:"duration"`
}
