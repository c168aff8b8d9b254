// Package graph builds the tag/keyword mind map over a note corpus.
package graph

// Node kinds.
const (
	NodeKindDocument = "document"
	NodeKindKeyword  = "keyword"
	NodeKindTag      = "tag"
)

// Edge kinds.
const (
	EdgeKindSemantic = "semantic"
	EdgeKindTag      = "tag"
	EdgeKindKeyword  = "keyword"
)

// Node represents a node in the mind map.
type Node struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Edge represents an edge in the mind map. Strength is always in [0,1].
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
}

// MindMap is the complete graph structure, recomputed from scratch on every
// request.
type MindMap struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	Stats   Stats  `json:"stats"`
	BuildMs int64  `json:"build_ms"`
}

// Stats contains graph statistics.
type Stats struct {
	NodeCount     int `json:"node_count"`
	EdgeCount     int `json:"edge_count"`
	SemanticEdges int `json:"semantic_edges"`
	TagEdges      int `json:"tag_edges"`
	KeywordEdges  int `json:"keyword_edges"`
}

// Config contains configuration for graph building.
type Config struct {
	// SemanticThreshold is the minimum text similarity for a semantic edge.
	SemanticThreshold float64
	// MaxSemanticNodes caps the O(n^2) similarity pass to the first N
	// document nodes.
	MaxSemanticNodes int
	// KeywordsPerDocument is the number of keywords extracted per document.
	KeywordsPerDocument int
	// EnablePageRank enables importance-based node weights.
	EnablePageRank bool
}

// DefaultConfig returns the default graph configuration.
func DefaultConfig() Config {
	return Config{
		SemanticThreshold:   0.3,
		MaxSemanticNodes:    10,
		KeywordsPerDocument: 5,
		EnablePageRank:      true,
	}
}
