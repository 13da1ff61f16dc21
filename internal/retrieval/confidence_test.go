package retrieval

import "testing"

func TestConfidence_MonotonicAndBounded(t *testing.T) {
	prev := -1.0
	for _, top := range []float64{-0.5, 0, 0.3, 0.6, 0.82, 1, 1.4} {
		got := Confidence([]Passage{{Score: top}, {Score: top / 2}})
		if got < 0 || got > 1 {
			t.Errorf("Confidence(%v) = %v out of [0,1]", top, got)
		}
		if got < prev {
			t.Errorf("Confidence not monotonic at %v: %v < %v", top, got, prev)
		}
		prev = got
	}
	if Confidence(nil) != 0 {
		t.Error("empty passages should give 0")
	}
}

func TestAggregate(t *testing.T) {
	r := Aggregate([]Passage{
		{Text: "Open settings.", Source: "faq.md", Score: 0.82},
		{Text: "Choose reset.", Source: "faq.md", Score: 0.7},
		{Text: "Check email.", Source: "manual.md", Score: 0.5},
	})

	if r.Context != "Open settings.\n\nChoose reset.\n\nCheck email." {
		t.Errorf("Context = %q", r.Context)
	}
	if len(r.Sources) != 2 || r.Sources[0] != "faq.md" || r.Sources[1] != "manual.md" {
		t.Errorf("Sources = %v", r.Sources)
	}
	if r.Confidence != 0.82 {
		t.Errorf("Confidence = %v", r.Confidence)
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{K: 5, FetchK: 2, DiversityLambda: 3}.Normalize()
	if p.FetchK != 5 || p.DiversityLambda != 1 {
		t.Errorf("Normalize() = %+v", p)
	}
	if d := (Params{}).Normalize(); d.K != DefaultParams.K {
		t.Errorf("zero K not defaulted: %+v", d)
	}
}

func TestSplit(t *testing.T) {
	docs := Split("faq.md", "First paragraph.\r\n\r\n\n\nSecond\nstill second.\n\n   \n")
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0].ID != "faq.md#0" || docs[1].ID != "faq.md#1" {
		t.Errorf("ids = %q, %q", docs[0].ID, docs[1].ID)
	}
	if docs[1].Text != "Second\nstill second." || docs[1].Source != "faq.md" {
		t.Errorf("docs[1] = %+v", docs[1])
	}
}
