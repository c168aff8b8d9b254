package graph

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/notabase/notabase/plugin/search"
)

// cacheTTL bounds how long a built mind map may be served for an unchanged
// corpus.
const cacheTTL = 5 * time.Minute

// Cache is the optional byte cache used to memoize builds per corpus
// identity.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Builder builds mind maps from a note corpus. The corpus is supplied fresh
// per call; the builder owns no note state of its own.
type Builder struct {
	config Config
	cache  Cache
}

// NewBuilder creates a Builder with the default config.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// NewBuilderWithConfig creates a Builder with a custom config.
func NewBuilderWithConfig(config Config) *Builder {
	return &Builder{config: config}
}

// WithCache attaches a cache for per-corpus memoization.
func (b *Builder) WithCache(c Cache) *Builder {
	b.cache = c
	return b
}

// Build constructs the mind map for the corpus.
func (b *Builder) Build(corpus []search.Document) *MindMap {
	start := time.Now()

	if cached := b.fromCache(corpus); cached != nil {
		return cached
	}

	mindMap := &MindMap{}
	if len(corpus) == 0 {
		mindMap.BuildMs = time.Since(start).Milliseconds()
		return mindMap
	}

	b.addDocumentNodes(mindMap, corpus)
	b.addTagNodes(mindMap, corpus)
	b.addKeywordNodes(mindMap, corpus)
	b.addSemanticEdges(mindMap, corpus)

	if b.config.EnablePageRank {
		b.computePageRank(mindMap)
	}

	mindMap.Stats.NodeCount = len(mindMap.Nodes)
	mindMap.Stats.EdgeCount = len(mindMap.Edges)
	mindMap.BuildMs = time.Since(start).Milliseconds()

	b.toCache(corpus, mindMap)
	return mindMap
}

func (b *Builder) addDocumentNodes(mindMap *MindMap, corpus []search.Document) {
	for _, doc := range corpus {
		mindMap.Nodes = append(mindMap.Nodes, Node{
			ID:    doc.ID,
			Kind:  NodeKindDocument,
			Label: truncateLabel(doc.Title),
		})
	}
}

// addTagNodes creates one node per distinct tag and a tag edge from every
// document carrying it.
func (b *Builder) addTagNodes(mindMap *MindMap, corpus []search.Document) {
	seen := make(map[string]bool)
	for _, doc := range corpus {
		for _, tag := range doc.Tags {
			lower := strings.ToLower(strings.TrimSpace(tag))
			if lower == "" {
				continue
			}
			nodeID := "tag:" + lower
			if !seen[lower] {
				seen[lower] = true
				mindMap.Nodes = append(mindMap.Nodes, Node{
					ID:    nodeID,
					Kind:  NodeKindTag,
					Label: lower,
				})
			}
			mindMap.Edges = append(mindMap.Edges, Edge{
				Source:   doc.ID,
				Target:   nodeID,
				Kind:     EdgeKindTag,
				Strength: 1.0,
			})
			mindMap.Stats.TagEdges++
		}
	}
}

// addKeywordNodes extracts keywords per document and links each document to
// its keywords, strength decreasing with keyword rank.
func (b *Builder) addKeywordNodes(mindMap *MindMap, corpus []search.Document) {
	limit := b.config.KeywordsPerDocument
	if limit <= 0 {
		limit = search.DefaultKeywordLimit
	}

	seen := make(map[string]bool)
	for _, doc := range corpus {
		keywords, err := search.ExtractKeywords(doc, corpus, limit)
		if err != nil {
			slog.Warn("keyword extraction failed", "document_id", doc.ID, "error", err)
			continue
		}
		for rank, keyword := range keywords {
			nodeID := "kw:" + keyword
			if !seen[keyword] {
				seen[keyword] = true
				mindMap.Nodes = append(mindMap.Nodes, Node{
					ID:    nodeID,
					Kind:  NodeKindKeyword,
					Label: keyword,
				})
			}
			mindMap.Edges = append(mindMap.Edges, Edge{
				Source:   doc.ID,
				Target:   nodeID,
				Kind:     EdgeKindKeyword,
				Strength: 1 - float64(rank)/float64(limit),
			})
			mindMap.Stats.KeywordEdges++
		}
	}
}

// addSemanticEdges draws an edge between document pairs whose text similarity
// exceeds the threshold. The pass is capped to the first MaxSemanticNodes
// documents to bound the O(n^2) comparison.
func (b *Builder) addSemanticEdges(mindMap *MindMap, corpus []search.Document) {
	limit := len(corpus)
	if b.config.MaxSemanticNodes > 0 && limit > b.config.MaxSemanticNodes {
		limit = b.config.MaxSemanticNodes
	}

	for i := 0; i < limit; i++ {
		for j := i + 1; j < limit; j++ {
			a, b2 := corpus[i], corpus[j]
			similarity := search.TextSimilarity(
				a.Title+"\n"+a.Content,
				b2.Title+"\n"+b2.Content,
			)
			if similarity <= b.config.SemanticThreshold {
				continue
			}
			mindMap.Edges = append(mindMap.Edges, Edge{
				Source:   a.ID,
				Target:   b2.ID,
				Kind:     EdgeKindSemantic,
				Strength: similarity,
			})
			mindMap.Stats.SemanticEdges++
		}
	}
}

// computePageRank assigns node weights using simplified PageRank over the
// undirected edge set, normalized so the most important node weighs 1.
func (b *Builder) computePageRank(mindMap *MindMap) {
	n := len(mindMap.Nodes)
	if n == 0 {
		return
	}

	const (
		damping    = 0.85
		iterations = 20
	)

	scores := make(map[string]float64, n)
	for _, node := range mindMap.Nodes {
		scores[node.ID] = 1.0 / float64(n)
	}

	neighbors := make(map[string][]string)
	for _, edge := range mindMap.Edges {
		neighbors[edge.Source] = append(neighbors[edge.Source], edge.Target)
		neighbors[edge.Target] = append(neighbors[edge.Target], edge.Source)
	}

	for iter := 0; iter < iterations; iter++ {
		next := make(map[string]float64, n)
		for id := range scores {
			sum := 0.0
			for _, neighbor := range neighbors[id] {
				if degree := len(neighbors[neighbor]); degree > 0 {
					sum += scores[neighbor] / float64(degree)
				}
			}
			next[id] = (1-damping)/float64(n) + damping*sum
		}
		scores = next
	}

	var maxScore float64
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
	}
	if maxScore <= 0 {
		return
	}
	for i := range mindMap.Nodes {
		mindMap.Nodes[i].Weight = scores[mindMap.Nodes[i].ID] / maxScore
	}
}

// corpusKey derives a cache key from the corpus identity: IDs and update
// timestamps, order-sensitive.
func corpusKey(corpus []search.Document) string {
	h := fnv.New64a()
	for _, doc := range corpus {
		fmt.Fprintf(h, "%s:%d;", doc.ID, doc.UpdatedTs)
	}
	return fmt.Sprintf("graph:%x", h.Sum64())
}

func (b *Builder) fromCache(corpus []search.Document) *MindMap {
	if b.cache == nil {
		return nil
	}
	data, ok := b.cache.Get(corpusKey(corpus))
	if !ok {
		return nil
	}
	var mindMap MindMap
	if err := json.Unmarshal(data, &mindMap); err != nil {
		return nil
	}
	return &mindMap
}

func (b *Builder) toCache(corpus []search.Document, mindMap *MindMap) {
	if b.cache == nil {
		return
	}
	if data, err := json.Marshal(mindMap); err == nil {
		b.cache.Set(corpusKey(corpus), data, cacheTTL)
	}
}

// truncateLabel truncates a node label to 50 runes, rune-safe for CJK.
func truncateLabel(label string) string {
	label = strings.TrimSpace(label)
	runes := []rune(label)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return label
}
