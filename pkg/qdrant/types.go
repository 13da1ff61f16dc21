package qdrant

// CreateCollectionRequest defines the schema for creating a collection.
type CreateCollectionRequest struct {
	Name    string       `json:"-"` // in URL
	Vectors VectorConfig `json:"vectors"`
}

// VectorConfig defines vector dimension and distance metric.
type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"` // "Cosine", "Euclid", "Dot"
}

// Point is a vector with payload. Qdrant only accepts UUID or uint64 ids.
type Point struct {
	ID      interface{}            `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

type SearchRequest struct {
	Vector      []float32              `json:"vector"`
	Limit       int                    `json:"limit"`
	WithPayload bool                   `json:"with_payload"`
	WithVector  bool                   `json:"with_vector,omitempty"`
	Filter      map[string]interface{} `json:"filter,omitempty"`
}

type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
}

type ScoredPoint struct {
	ID      interface{}            `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
	Vector  []float32              `json:"vector,omitempty"`
}

type DeletePointsRequest struct {
	Points []string `json:"points"`
}

type CountRequest struct {
	Exact bool `json:"exact"`
}

type CountResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}
