package retrieval

import "strings"

// Confidence maps the top passage score into [0,1]. It is monotonic in the
// top score: negative similarities count as 0, anything above 1 as 1.
func Confidence(passages []Passage) float64 {
	if len(passages) == 0 {
		return 0
	}
	top := passages[0].Score
	for _, p := range passages[1:] {
		if p.Score > top {
			top = p.Score
		}
	}
	switch {
	case top < 0:
		return 0
	case top > 1:
		return 1
	}
	return top
}

// Aggregate builds the Retrieve node output from re-ranked passages.
func Aggregate(passages []Passage) Result {
	texts := make([]string, 0, len(passages))
	var sources []string
	seen := make(map[string]bool)

	for _, p := range passages {
		texts = append(texts, p.Text)
		if p.Source != "" && !seen[p.Source] {
			seen[p.Source] = true
			sources = append(sources, p.Source)
		}
	}

	return Result{
		Passages:   passages,
		Context:    strings.Join(texts, "\n\n"),
		Sources:    sources,
		Confidence: Confidence(passages),
	}
}
