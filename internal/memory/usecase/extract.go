package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"helpdesk-automation/internal/classifier"
	"helpdesk-automation/internal/memory"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/embedding"
)

const sourceMaxRunes = 200

// ExtractAndStore asks the completion service for a structured extraction and
// falls back to the keyword rules when the call or its reply fails.
func (s *implStore) ExtractAndStore(ctx context.Context, message string) (bool, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return false, memory.ErrEmptyMessage
	}

	if s.completion == nil {
		return s.extractManual(ctx, message)
	}

	reply, err := s.completion.Complete(ctx, extractionPrompt(message))
	if err != nil {
		s.l.Warnf(ctx, "memory.usecase.ExtractAndStore: identity=%s completion failed, using keyword rules: %v", s.identity, err)
		return s.extractManual(ctx, message)
	}

	ext, err := ParseExtraction(reply)
	if err != nil {
		s.l.Warnf(ctx, "memory.usecase.ExtractAndStore: identity=%s unparseable reply, using keyword rules: %v", s.identity, err)
		return s.extractManual(ctx, message)
	}

	if !ext.Category.Valid() || ext.Importance < s.minImportance || ext.Content == "" {
		s.l.Debugf(ctx, "memory.usecase.ExtractAndStore: identity=%s nothing to remember (category=%s importance=%d)",
			s.identity, ext.Category, ext.Importance)
		return false, nil
	}

	return true, s.store(ctx, ext.Content, ext.Category, ext.Importance, message)
}

func (s *implStore) extractManual(ctx context.Context, message string) (bool, error) {
	rule, ok := MatchRule(s.rules, message)
	if !ok {
		return false, nil
	}
	return true, s.store(ctx, rule.Label+message, rule.Category, memory.ManualImportance, message)
}

// MatchRule returns the first rule with a phrase contained in message,
// ignoring case and accents.
func MatchRule(rules []memory.Rule, message string) (memory.Rule, bool) {
	folded := classifier.Fold(message)
	for _, r := range rules {
		for _, p := range r.Phrases {
			if strings.Contains(folded, p) {
				return r, true
			}
		}
	}
	return memory.Rule{}, false
}

func (s *implStore) store(ctx context.Context, text string, category model.MemoryCategory, importance int, message string) error {
	vec, err := embedding.EmbedDocuments(ctx, s.embedder, []string{text})
	if err != nil {
		return fmt.Errorf("embed memory: %w", err)
	}

	rec := model.MemoryRecord{
		ID:         uuid.NewString(),
		Identity:   s.identity,
		Text:       text,
		Category:   category,
		Importance: importance,
		Source:     truncateRunes(message, sourceMaxRunes),
		CreatedAt:  s.now(),
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("store memory record: %w", err)
	}
	if err := s.index.Add(ctx, rec, vec[0]); err != nil {
		return fmt.Errorf("index memory record: %w", err)
	}

	s.l.Infof(ctx, "memory.usecase: identity=%s stored %s memory (importance=%d)", s.identity, category, importance)
	return nil
}

// ParseExtraction reads the JSON object of an extraction reply, tolerating
// surrounding prose or code fences. Spanish category names are accepted.
func ParseExtraction(reply string) (memory.Extraction, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return memory.Extraction{}, memory.ErrInvalidExtraction
	}

	var ext memory.Extraction
	if err := json.Unmarshal([]byte(reply[start:end+1]), &ext); err != nil {
		return memory.Extraction{}, fmt.Errorf("%w: %v", memory.ErrInvalidExtraction, err)
	}

	ext.Category = normalizeCategory(string(ext.Category))
	ext.Content = strings.TrimSpace(ext.Content)
	if ext.Importance > 5 {
		ext.Importance = 5
	}
	return ext, nil
}

func normalizeCategory(c string) model.MemoryCategory {
	switch classifier.Fold(strings.TrimSpace(c)) {
	case "personal":
		return model.MemoryPersonal
	case "professional", "profesional":
		return model.MemoryProfessional
	case "preference", "preferences", "preferencias":
		return model.MemoryPreference
	case "important_fact", "important_facts", "hechos_importantes", "hecho_importante":
		return model.MemoryImportantFact
	}
	return model.MemoryNone
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func extractionPrompt(message string) string {
	return fmt.Sprintf(`Analyze the following user message and decide whether it contains information worth remembering.

Available categories:
- personal: name, age, location, family
- professional: job, company, projects, skills
- preference: likes, dislikes, personal preferences
- important_fact: relevant information that must be remembered

User message: %q

If the message contains important information, extract ONE memory (the most important).
If it contains nothing worth remembering, use category "none".

Reply with a JSON object only:
{"category": "...", "content": "...", "importance": 1-5}`, message)
}
