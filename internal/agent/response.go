package agent

// ResultPayload is one ranked result in the stable JSON response contract.
type ResultPayload struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Price   *float64 `json:"price"`
	Score   *float64 `json:"score"`
	Source  string   `json:"source"`
	Rank    int      `json:"rank"`
}

// Response is the stable JSON contract consumed by any caller (HTTP, MCP,
// CLI). A non-null Error always comes with empty Results. Answer, Citations
// and Log are additive fields on top of the core contract.
type Response struct {
	Query     string          `json:"query"`
	Results   []ResultPayload `json:"results"`
	Error     *string         `json:"error"`
	Answer    string          `json:"answer,omitempty"`
	Citations []Citation      `json:"citations,omitempty"`
	Log       []string        `json:"log,omitempty"`
}

// BuildResponse projects a finished conversation state onto the response
// contract.
func BuildResponse(st *ConversationState) Response {
	resp := Response{
		Query:     st.Query,
		Results:   make([]ResultPayload, 0, len(st.Reconciled)),
		Answer:    st.FinalAnswer,
		Citations: st.Citations,
		Log:       st.Log,
	}

	if st.Err != "" {
		errMsg := st.Err
		resp.Error = &errMsg
		return resp
	}

	for _, res := range st.Reconciled {
		payload := ResultPayload{
			Title:   res.Title,
			URL:     res.URL,
			Snippet: res.Snippet,
			Source:  string(res.Source),
			Rank:    res.Rank,
		}
		if res.HasPrice {
			price := res.Price
			payload.Price = &price
		}
		if res.HasScore {
			score := res.Score
			payload.Score = &score
		}
		resp.Results = append(resp.Results, payload)
	}
	return resp
}
