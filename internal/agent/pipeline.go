package agent

import (
	"context"

	"github.com/kayz/shopmate/internal/logger"
)

const (
	declinationAnswer = "I can only help with finding and comparing products. That request is outside what I can do."
	apologyAnswer     = "Sorry, something went wrong and I could not complete this search. Please try again."
	cancelledAnswer   = "The search was cancelled before it could finish."
)

// Pipeline wires the four stages together. One Run call owns one
// ConversationState; Pipeline itself is stateless and safe for concurrent
// use.
type Pipeline struct {
	router    *Router
	planner   *Planner
	retriever *Retriever
	answerer  *Answerer
}

func NewPipeline(router *Router, planner *Planner, retriever *Retriever, answerer *Answerer) *Pipeline {
	return &Pipeline{
		router:    router,
		planner:   planner,
		retriever: retriever,
		answerer:  answerer,
	}
}

// Run executes Router -> Planner -> Retriever -> Answerer for one query.
// It always returns a usable state: a stage panic is converted into an
// apologetic answer with the error recorded, never a crash.
func (p *Pipeline) Run(ctx context.Context, query string) (st *ConversationState) {
	st = NewConversationState(query)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic for request %s: %v", st.RequestID, r)
			st.AppendLog("pipeline", "internal failure: %v", r)
			st.Fail(apologyAnswer, "internal pipeline error")
		}
	}()

	p.router.Route(ctx, st)
	if st.Intent.Type == IntentOutOfScope {
		st.FinalAnswer = declinationAnswer
		st.Reconciled = []ReconciledResult{}
		st.AppendLog("pipeline", "out of scope, stopping after router")
		return st
	}

	p.planner.Plan(st)
	p.retriever.Retrieve(ctx, st)

	if ctx.Err() != nil {
		st.Fail(cancelledAnswer, "request cancelled")
		return st
	}

	p.answerer.Answer(ctx, st)
	return st
}
