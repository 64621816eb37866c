package persist

import (
	"encoding/json"
	"time"
)

// Exchange is one answered query: the question, the spoken answer, and the
// ranked results that backed it.
type Exchange struct {
	ID        int64
	RequestID string
	Query     string
	Answer    string
	Results   []StoredResult
	Error     string
	CreatedAt time.Time
}

// StoredResult is the persisted projection of one ranked result.
type StoredResult struct {
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Price  *float64 `json:"price,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	Source string   `json:"source"`
	Rank   int      `json:"rank"`
}

// toJSON converts an object to JSON string
func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// fromJSON parses JSON string into an object
func fromJSON(data string, v interface{}) error {
	if data == "" || data == "[]" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
