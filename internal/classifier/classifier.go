// Package classifier decides whether a query is answered automatically or
// escalated to a human agent.
package classifier

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"helpdesk-automation/internal/completion"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/log"
)

// DefaultFallbackThreshold is the confidence at or above which the fallback
// rule answers automatically.
const DefaultFallbackThreshold = 0.60

// Fallback causes recorded in history. Both take the same threshold path.
const (
	CauseCompletionFailed = "completion_failed"
	CauseAmbiguousReply   = "ambiguous_reply"
)

// decisionWords maps whole folded words to a category. Inflections such as
// "automatically" or "automaticamente" are not decisions.
var decisionWords = map[string]model.Category{
	"automatic":  model.CategoryAutomatic,
	"automatico": model.CategoryAutomatic,
	"automatica": model.CategoryAutomatic,
	"escalated":  model.CategoryEscalated,
	"escalate":   model.CategoryEscalated,
	"escalado":   model.CategoryEscalated,
	"escalada":   model.CategoryEscalated,
}

// Input carries what the decision is based on.
type Input struct {
	Query            string
	RetrievedContext string
	Confidence       float64
}

// Decision is the classifier output.
type Decision struct {
	Category      model.Category
	Justification string
	Fallback      bool
	Cause         string // set when Fallback
	History       []string
}

type Classifier struct {
	completion completion.Service
	threshold  float64
	l          log.Logger
}

// New returns a Classifier. A nil completion service always takes the fallback.
func New(svc completion.Service, threshold float64, l log.Logger) *Classifier {
	return &Classifier{completion: svc, threshold: threshold, l: l}
}

// Threshold returns the configured fallback threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify never fails: completion errors and unparseable replies resolve
// through FallbackCategory.
func (c *Classifier) Classify(ctx context.Context, in Input) Decision {
	if c.completion == nil {
		return c.fallback(ctx, in, CauseCompletionFailed, "")
	}

	reply, err := c.completion.Complete(ctx, buildPrompt(in))
	if err != nil {
		c.l.Warnf(ctx, "classifier: completion failed, using confidence fallback: %v", err)
		return c.fallback(ctx, in, CauseCompletionFailed, "")
	}

	category, ok := ParseDecision(reply)
	if !ok {
		return c.fallback(ctx, in, CauseAmbiguousReply, reply)
	}

	return Decision{
		Category:      category,
		Justification: reply,
		History: []string{
			fmt.Sprintf("Classification with context: %s", category),
			fmt.Sprintf("Justification: %s", reply),
		},
	}
}

func (c *Classifier) fallback(ctx context.Context, in Input, cause, reply string) Decision {
	category := FallbackCategory(in.Confidence, c.threshold)
	c.l.Warnf(ctx, "classifier: fallback (%s) confidence=%.2f threshold=%.2f -> %s", cause, in.Confidence, c.threshold, category)

	return Decision{
		Category:      category,
		Justification: reply,
		Fallback:      true,
		Cause:         cause,
		History: []string{
			fmt.Sprintf("Classification fallback (%s), using confidence: %.2f -> %s", cause, in.Confidence, category),
		},
	}
}

// FallbackCategory is the deterministic rule: automatic iff confidence >= threshold.
func FallbackCategory(confidence, threshold float64) model.Category {
	if confidence >= threshold {
		return model.CategoryAutomatic
	}
	return model.CategoryEscalated
}

// ParseDecision returns the category of the first decision word in reply,
// ignoring case and diacritics. The reply leads with its decision, so later
// mentions ("escalated: not automatic") do not override it.
func ParseDecision(reply string) (model.Category, bool) {
	words := strings.FieldsFunc(Fold(reply), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if category, ok := decisionWords[w]; ok {
			return category, true
		}
	}
	return model.CategoryUnset, false
}

// Fold lowercases s and strips combining marks ("Automático" -> "automatico").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func buildPrompt(in Input) string {
	return fmt.Sprintf(`Analyze this helpdesk query and decide whether it can be answered automatically or needs escalation.

USER QUERY: %s

INFORMATION FOUND IN THE KNOWLEDGE BASE:
%s

SEARCH CONFIDENCE: %.2f

Decision criteria:
- AUTOMATIC: the knowledge base fully answers the query, confidence is good, and it is a standard or known procedure.
- ESCALATED: the information is insufficient, confidence is low, the problem is complex or unique, it needs access to internal systems, or it involves business decisions.

Answer only with "automatic" or "escalated" followed by a short justification (at most 20 words):`,
		in.Query, in.RetrievedContext, in.Confidence)
}
