package classifier

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"helpdesk-automation/internal/completion"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/log"
)

type fakeCompletion struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeCompletion) Converse(ctx context.Context, system string, messages []model.ChatMessage) (string, error) {
	return f.reply, f.err
}

func TestFallbackCategory_BoundaryExact(t *testing.T) {
	tests := []struct {
		confidence float64
		want       model.Category
	}{
		{0, model.CategoryEscalated},
		{0.30, model.CategoryEscalated},
		{math.Nextafter(0.60, 0), model.CategoryEscalated},
		{0.60, model.CategoryAutomatic},
		{0.82, model.CategoryAutomatic},
		{1, model.CategoryAutomatic},
	}

	for _, tt := range tests {
		if got := FallbackCategory(tt.confidence, DefaultFallbackThreshold); got != tt.want {
			t.Errorf("FallbackCategory(%v) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestClassify_FallbackOnFailureAndAmbiguity(t *testing.T) {
	failing := &fakeCompletion{err: completion.ErrUnavailable}
	ambiguous := &fakeCompletion{reply: "I am not sure about this one"}

	for step := 0; step <= 100; step++ {
		confidence := float64(step) / 100
		want := model.CategoryEscalated
		if confidence >= 0.60 {
			want = model.CategoryAutomatic
		}

		for name, svc := range map[string]*fakeCompletion{"failed": failing, "ambiguous": ambiguous} {
			d := New(svc, DefaultFallbackThreshold, log.NewNop()).Classify(context.Background(), Input{Confidence: confidence})
			if d.Category != want {
				t.Errorf("%s confidence=%v: category %s, want %s", name, confidence, d.Category, want)
			}
			if !d.Fallback {
				t.Errorf("%s confidence=%v: expected fallback", name, confidence)
			}
		}
	}
}

func TestClassify_FallbackCausesAreDistinct(t *testing.T) {
	failed := New(&fakeCompletion{err: errors.New("down")}, 0.6, log.NewNop()).Classify(context.Background(), Input{Confidence: 0.3})
	ambiguous := New(&fakeCompletion{reply: "hmm"}, 0.6, log.NewNop()).Classify(context.Background(), Input{Confidence: 0.3})

	if failed.Cause != CauseCompletionFailed || ambiguous.Cause != CauseAmbiguousReply {
		t.Errorf("causes = %q / %q", failed.Cause, ambiguous.Cause)
	}
	if !strings.Contains(failed.History[0], CauseCompletionFailed) {
		t.Errorf("history does not record cause: %v", failed.History)
	}
}

func TestClassify_ThresholdIsConfigurable(t *testing.T) {
	c := New(nil, 0.9, log.NewNop())
	if d := c.Classify(context.Background(), Input{Confidence: 0.82}); d.Category != model.CategoryEscalated {
		t.Errorf("with threshold 0.9, 0.82 should escalate, got %s", d.Category)
	}
}

func TestClassify_CleanReply(t *testing.T) {
	tests := []struct {
		reply string
		want  model.Category
	}{
		{"automatico: standard procedure", model.CategoryAutomatic},
		{"AUTOMÁTICO, bien documentado", model.CategoryAutomatic},
		{"Automatic - documented in FAQ", model.CategoryAutomatic},
		{"escalado: requires billing access", model.CategoryEscalated},
		{"Escalated because it is a business decision", model.CategoryEscalated},
	}

	for _, tt := range tests {
		svc := &fakeCompletion{reply: tt.reply}
		// confidence chosen opposite to the reply, so a fallback would be visible
		confidence := 0.9
		if tt.want == model.CategoryAutomatic {
			confidence = 0.1
		}
		d := New(svc, DefaultFallbackThreshold, log.NewNop()).Classify(context.Background(), Input{Confidence: confidence})
		if d.Category != tt.want || d.Fallback {
			t.Errorf("reply %q: category=%s fallback=%v, want %s", tt.reply, d.Category, d.Fallback, tt.want)
		}
		if len(d.History) != 2 {
			t.Errorf("reply %q: history = %v", tt.reply, d.History)
		}
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		reply string
		want  model.Category
		ok    bool
	}{
		{"Escalated: this cannot be answered automatically, it needs a business decision.", model.CategoryEscalated, true},
		{"Escalado: no puede responderse automáticamente.", model.CategoryEscalated, true},
		{"escalated - not automatic", model.CategoryEscalated, true},
		{"Automatic. Escalation is not needed.", model.CategoryAutomatic, true},
		{"automática: procedimiento estándar", model.CategoryAutomatic, true},
		{"This is handled automatically by the portal", model.CategoryUnset, false},
		{"", model.CategoryUnset, false},
	}

	for _, tt := range tests {
		got, ok := ParseDecision(tt.reply)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDecision(%q) = %s, %v, want %s, %v", tt.reply, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassify_EscalatedReplyMentioningAutomatically(t *testing.T) {
	svc := &fakeCompletion{reply: "Escalated: this cannot be answered automatically, it needs a business decision."}
	d := New(svc, DefaultFallbackThreshold, log.NewNop()).Classify(context.Background(), Input{Confidence: 0.30})
	if d.Category != model.CategoryEscalated || d.Fallback {
		t.Errorf("category=%s fallback=%v, want escalated without fallback", d.Category, d.Fallback)
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Escalación AUTOMÁTICA"); got != "escalacion automatica" {
		t.Errorf("Fold() = %q", got)
	}
}
