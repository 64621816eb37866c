// Package agent implements the four-stage conversation pipeline that answers
// product queries: Router -> Planner -> Retriever -> Answerer, threading one
// mutable ConversationState per invocation.
package agent

import (
	"fmt"

	"github.com/google/uuid"
)

// IntentType classifies what the user is asking for.
type IntentType string

const (
	IntentProductQuery  IntentType = "product_query"
	IntentOutOfScope    IntentType = "out_of_scope"
	IntentClarification IntentType = "clarification"
)

// Intent is the router's classification of the query.
type Intent struct {
	Type        IntentType `json:"type"`
	SafetyFlags []string   `json:"safety_flags,omitempty"`
}

// Constraints are the structured limits the planner derives from the query.
type Constraints struct {
	MaxPrice    float64  `json:"max_price,omitempty"`
	HasMaxPrice bool     `json:"-"`
	Category    string   `json:"category,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Strategy selects which sources the retriever queries.
type Strategy string

const (
	StrategyCatalogOnly Strategy = "catalog_only"
	StrategyWebOnly     Strategy = "web_only"
	StrategyHybrid      Strategy = "hybrid"
)

// Source tags where a result came from.
type Source string

const (
	SourceCatalog Source = "catalog"
	SourceWeb     Source = "web"
)

// RawResult is the canonical normalized result shape shared by both sources.
// IdentityKey is the catalog product id for catalog items and the normalized
// URL (scheme+host+path, query stripped) for web items.
type RawResult struct {
	IdentityKey string
	Title       string
	URL         string
	Snippet     string
	Price       float64
	HasPrice    bool
	Score       float64
	HasScore    bool
	Source      Source
}

// ReconciledResult is a RawResult with its dense 0-based rank in the merged,
// de-duplicated, sorted list.
type ReconciledResult struct {
	RawResult
	Rank int
}

// Citation is one entry of the 1-based citation list the answer references.
type Citation struct {
	Index int      `json:"index"`
	Title string   `json:"title"`
	URL   string   `json:"url,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// ConversationState is mutated in place by each pipeline stage. It is owned
// exclusively by one pipeline invocation and never shared across requests.
type ConversationState struct {
	RequestID   string
	Query       string
	Intent      *Intent
	Constraints *Constraints
	Strategy    Strategy

	RawCatalogResults []RawResult
	RawWebResults     []RawResult
	Reconciled        []ReconciledResult

	FinalAnswer string
	Citations   []Citation
	Log         []string

	// Err is the user-visible pipeline error. Non-empty Err implies the
	// reconciled results were discarded.
	Err string
}

// NewConversationState creates the per-invocation state record.
func NewConversationState(query string) *ConversationState {
	return &ConversationState{
		RequestID: uuid.NewString(),
		Query:     query,
	}
}

// AppendLog records one stage-tagged log line on the state.
func (s *ConversationState) AppendLog(stage, format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf("[%s] %s", stage, fmt.Sprintf(format, args...)))
}

// Fail marks the invocation as terminally failed: results are discarded and
// the answer carries a user-visible message.
func (s *ConversationState) Fail(answer, errMsg string) {
	s.FinalAnswer = answer
	s.Err = errMsg
	s.Reconciled = nil
	s.Citations = nil
}
