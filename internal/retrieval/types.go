package retrieval

// Params controls oversampling and re-ranking.
type Params struct {
	K               int
	FetchK          int
	DiversityLambda float64 // 1 = pure relevance, 0 = pure novelty
}

// DefaultParams mirrors the knowledge base retriever settings.
var DefaultParams = Params{K: 2, FetchK: 20, DiversityLambda: 0.7}

// Normalize clamps p into a valid parameter set.
func (p Params) Normalize() Params {
	if p.K <= 0 {
		p.K = DefaultParams.K
	}
	if p.FetchK < p.K {
		p.FetchK = p.K
	}
	if p.DiversityLambda < 0 {
		p.DiversityLambda = 0
	}
	if p.DiversityLambda > 1 {
		p.DiversityLambda = 1
	}
	return p
}

// Passage is one re-ranked result.
type Passage struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"` // similarity to the query
}

// Result is what the Retrieve node stores into the conversation state.
type Result struct {
	Passages   []Passage
	Context    string
	Sources    []string
	Confidence float64
}

// Document is a knowledge base passage to index.
type Document struct {
	ID     string
	Text   string
	Source string
}
