package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpdesk-automation/internal/classifier"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/pkg/log"
)

type fakeRetriever struct {
	res retrieval.Result
	err error
}

func (f fakeRetriever) Retrieve(ctx context.Context, query string) (retrieval.Result, error) {
	return f.res, f.err
}

type fakeCompletion struct {
	reply string
	err   error
}

func (f fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func (f fakeCompletion) Converse(ctx context.Context, system string, msgs []model.ChatMessage) (string, error) {
	return f.reply, f.err
}

type recorder struct {
	saved  []model.ConversationState
	failAt int // 1-based call that fails; 0 never
}

func (r *recorder) persist(ctx context.Context, s *model.ConversationState) error {
	if r.failAt == len(r.saved)+1 {
		return errors.New("disk full")
	}
	s.Version++
	r.saved = append(r.saved, s.Clone())
	return nil
}

func newEngine(res retrieval.Result, retrErr error, reply string, complErr error) *Engine {
	cls := classifier.New(fakeCompletion{reply: reply, err: complErr}, classifier.DefaultFallbackThreshold, log.NewNop())
	return New(log.NewNop(), fakeRetriever{res: res, err: retrErr}, cls)
}

func newState(query string) model.ConversationState {
	s := model.ConversationState{ThreadID: "t-1"}
	Begin(&s, query, time.Now())
	return s
}

func resetPasswordResult() retrieval.Result {
	return retrieval.Result{
		Context:    "Open settings and choose reset password.",
		Sources:    []string{"faq.md"},
		Confidence: 0.82,
	}
}

func TestRouters(t *testing.T) {
	auto := model.ConversationState{Category: model.CategoryAutomatic}
	esc := model.ConversationState{Category: model.CategoryEscalated}
	if got := RouteAfterClassify(auto); got != NodeCompose {
		t.Errorf("RouteAfterClassify(automatic) = %s", got)
	}
	if got := RouteAfterClassify(esc); got != NodeEscalate {
		t.Errorf("RouteAfterClassify(escalated) = %s", got)
	}
	if got := RouteAfterClassify(model.ConversationState{}); got != NodeEscalate {
		t.Errorf("RouteAfterClassify(unset) = %s", got)
	}

	if got := RouteAfterEscalate(esc); got != NodeAwaitHuman {
		t.Errorf("RouteAfterEscalate(no reply) = %s", got)
	}
	esc.HumanResponse = model.StringPtr("")
	if got := RouteAfterEscalate(esc); got != NodeAwaitHuman {
		t.Errorf("RouteAfterEscalate(empty reply) = %s", got)
	}
	esc.HumanResponse = model.StringPtr("done")
	if got := RouteAfterEscalate(esc); got != NodeProcessHumanReply {
		t.Errorf("RouteAfterEscalate(reply) = %s", got)
	}
}

func TestTransitionTableIsClosed(t *testing.T) {
	e := newEngine(retrieval.Result{}, nil, "", nil)

	samples := []model.ConversationState{
		{},
		{Category: model.CategoryAutomatic},
		{Category: model.CategoryEscalated},
		{Category: model.CategoryEscalated, HumanResponse: model.StringPtr("ok")},
	}

	for id, node := range e.Nodes() {
		allowed, ok := Successors[id]
		if !ok {
			t.Errorf("node %s missing from Successors", id)
			continue
		}
		if node.Handle == nil && !node.Suspend {
			t.Errorf("node %s has neither handler nor suspension", id)
		}
		for _, s := range samples {
			to := node.Route(s)
			found := false
			for _, a := range allowed {
				if a == to {
					found = true
				}
			}
			if !found {
				t.Errorf("node %s routes to undeclared %s", id, to)
			}
			if _, ok := e.Nodes()[to]; !ok && to != NodeEnd {
				t.Errorf("node %s routes to %s which is not in the table", id, to)
			}
		}
	}
	if len(e.Nodes()) != len(Successors) {
		t.Errorf("table has %d nodes, Successors %d", len(e.Nodes()), len(Successors))
	}
}

func TestRun_AutomaticPath(t *testing.T) {
	e := newEngine(resetPasswordResult(), nil, "Automático: the FAQ covers it", nil)
	rec := &recorder{}
	s := newState("reset password")

	if err := e.Run(context.Background(), &s, rec.persist); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !s.Terminal() || s.Next != "" {
		t.Fatalf("status=%s next=%q, want terminal", s.Status, s.Next)
	}
	if s.Category != model.CategoryAutomatic || s.RequiresHuman {
		t.Errorf("category=%s requires_human=%v", s.Category, s.RequiresHuman)
	}
	want := "Open settings and choose reset password.\n\nSources consulted: faq.md"
	if s.FinalResponse == nil || *s.FinalResponse != want {
		t.Errorf("final_response = %v, want %q", s.FinalResponse, want)
	}
	if len(rec.saved) != 3 {
		t.Errorf("persisted %d times, want 3 (one per node)", len(rec.saved))
	}
	if s.Version != 3 {
		t.Errorf("version = %d", s.Version)
	}
	if last := s.History[len(s.History)-1]; last != "Final response generated automatically." {
		t.Errorf("last history = %q", last)
	}
}

func TestRun_EscalateSuspendsThenResumes(t *testing.T) {
	e := newEngine(retrieval.Result{Context: "Refunds need approval.", Sources: []string{"billing.md"}, Confidence: 0.30},
		nil, "", errors.New("connection refused"))
	rec := &recorder{}
	s := newState("refund my enterprise contract")

	if err := e.Run(context.Background(), &s, rec.persist); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !s.Suspended() || s.Next != string(NodeAwaitHuman) {
		t.Fatalf("status=%s next=%q, want suspended at await_human", s.Status, s.Next)
	}
	if !s.RequiresHuman || s.Category != model.CategoryEscalated || s.FinalResponse != nil {
		t.Errorf("state = %+v", s)
	}
	stored := rec.saved[len(rec.saved)-1]
	if !stored.Suspended() {
		t.Errorf("persisted status = %s, want suspended", stored.Status)
	}

	// a later process resumes purely from the stored checkpoint
	resumed := stored.Clone()
	resumed.HumanResponse = model.StringPtr("Refund approved.")
	resumed.Status = model.StatusRunning

	fresh := newEngine(retrieval.Result{}, errors.New("must not be called"), "", errors.New("must not be called"))
	if err := fresh.Run(context.Background(), &resumed, rec.persist); err != nil {
		t.Fatalf("resume Run() error = %v", err)
	}
	if !resumed.Terminal() || resumed.FinalResponse == nil || *resumed.FinalResponse != "Refund approved." {
		t.Errorf("resumed = %+v", resumed)
	}
	if !resumed.RequiresHuman {
		t.Error("requires_human must stay true")
	}
	if last := resumed.History[len(resumed.History)-1]; last != historyHumanReply {
		t.Errorf("last history = %q", last)
	}
	if resumed.Category != model.CategoryEscalated {
		t.Error("resume must not re-classify")
	}
}

func TestRun_SuspendedWithoutReplyIsNoop(t *testing.T) {
	e := newEngine(retrieval.Result{}, nil, "escalated", nil)
	rec := &recorder{}
	s := newState("anything")
	_ = e.Run(context.Background(), &s, rec.persist)
	n := len(rec.saved)

	s.Status = model.StatusRunning
	if err := e.Run(context.Background(), &s, rec.persist); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !s.Suspended() || len(rec.saved) != n {
		t.Errorf("status=%s saves=%d, want suspended without new saves", s.Status, len(rec.saved))
	}
}

func TestRun_PersistFailureDoesNotAdvance(t *testing.T) {
	e := newEngine(resetPasswordResult(), nil, "automatic", nil)
	rec := &recorder{failAt: 2}
	s := newState("reset password")

	err := e.Run(context.Background(), &s, rec.persist)
	if !helpdesk.IsPersistence(err) {
		t.Fatalf("Run() error = %v, want PersistenceError", err)
	}
	if s.Next != string(NodeClassify) || s.Status != model.StatusRunning || s.Category != model.CategoryUnset {
		t.Errorf("state advanced past failed node: next=%s status=%s category=%s", s.Next, s.Status, s.Category)
	}
	if s.Version != 1 {
		t.Errorf("version = %d, want 1", s.Version)
	}

	// retrying from the same state completes the run
	rec.failAt = 0
	if err := e.Run(context.Background(), &s, rec.persist); err != nil {
		t.Fatalf("retry Run() error = %v", err)
	}
	if !s.Terminal() {
		t.Errorf("status = %s", s.Status)
	}
	retrievals := 0
	for _, h := range s.History {
		if h == "Retrieval executed over the knowledge base" {
			retrievals++
		}
	}
	if retrievals != 1 {
		t.Errorf("retrieval ran %d times, want 1", retrievals)
	}
}

func TestRun_RetrievalFailureDegrades(t *testing.T) {
	e := newEngine(retrieval.Result{}, retrieval.ErrUnavailable, "", errors.New("down"))
	rec := &recorder{}
	s := newState("reset password")

	if err := e.Run(context.Background(), &s, rec.persist); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Confidence != 0 || s.RetrievedContext != nil || !s.Suspended() {
		t.Errorf("state = %+v, want escalated with empty context", s)
	}
}

func TestRun_UnknownNode(t *testing.T) {
	e := newEngine(retrieval.Result{}, nil, "", nil)
	s := newState("q")
	s.Next = "bogus"

	err := e.Run(context.Background(), &s, (&recorder{}).persist)
	if !errors.Is(err, helpdesk.ErrInvalidState) {
		t.Errorf("Run() error = %v, want ErrInvalidState", err)
	}
}

func TestClassifyRejectsSecondDecision(t *testing.T) {
	e := newEngine(retrieval.Result{}, nil, "automatic", nil)
	s := newState("q")
	s.Category = model.CategoryAutomatic

	if _, err := e.classify(context.Background(), s); !errors.Is(err, helpdesk.ErrInvalidState) {
		t.Errorf("classify() error = %v", err)
	}
}

func TestUpdateApplyKeepsFinalResponse(t *testing.T) {
	s := model.ConversationState{FinalResponse: model.StringPtr("first")}
	Update{FinalResponse: model.StringPtr("second"), History: []string{"h"}}.Apply(&s)
	if *s.FinalResponse != "first" || len(s.History) != 1 {
		t.Errorf("state = %+v", s)
	}
}
