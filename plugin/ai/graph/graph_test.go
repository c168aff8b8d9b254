package graph

import (
	"strings"
	"testing"
	"time"

	"github.com/notabase/notabase/plugin/search"
)

func testCorpus() []search.Document {
	return []search.Document{
		{
			ID:      "n1",
			Title:   "Sourdough starter",
			Content: "feeding schedule for the sourdough starter culture hydration",
			Tags:    []string{"baking"},
		},
		{
			ID:      "n2",
			Title:   "Sourdough troubleshooting",
			Content: "feeding schedule for the sourdough starter culture problems",
			Tags:    []string{"baking"},
		},
		{
			ID:      "n3",
			Title:   "Tax filing checklist",
			Content: "income receipts deductions quarterly estimated payments",
			Tags:    []string{"finance"},
		},
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	mindMap := NewBuilder().Build(nil)
	if len(mindMap.Nodes) != 0 || len(mindMap.Edges) != 0 {
		t.Errorf("empty corpus should yield empty graph, got %d nodes, %d edges",
			len(mindMap.Nodes), len(mindMap.Edges))
	}
}

func TestBuildNodes(t *testing.T) {
	mindMap := NewBuilder().Build(testCorpus())

	kinds := map[string]int{}
	for _, node := range mindMap.Nodes {
		kinds[node.Kind]++
	}
	if kinds[NodeKindDocument] != 3 {
		t.Errorf("expected 3 document nodes, got %d", kinds[NodeKindDocument])
	}
	if kinds[NodeKindTag] != 2 {
		t.Errorf("expected 2 tag nodes (baking, finance), got %d", kinds[NodeKindTag])
	}
	if kinds[NodeKindKeyword] == 0 {
		t.Error("expected keyword nodes")
	}
}

func TestBuildSemanticEdges(t *testing.T) {
	mindMap := NewBuilder().Build(testCorpus())

	var semantic []Edge
	for _, edge := range mindMap.Edges {
		if edge.Kind == EdgeKindSemantic {
			semantic = append(semantic, edge)
		}
	}

	// n1 and n2 share most vocabulary; n3 is disjoint.
	foundPair := false
	for _, edge := range semantic {
		if edge.Strength <= 0 || edge.Strength > 1 {
			t.Errorf("semantic edge strength %v out of (0,1]", edge.Strength)
		}
		if edge.Source == "n3" || edge.Target == "n3" {
			t.Errorf("no semantic edge expected to n3, got %s-%s", edge.Source, edge.Target)
		}
		if (edge.Source == "n1" && edge.Target == "n2") || (edge.Source == "n2" && edge.Target == "n1") {
			foundPair = true
		}
	}
	if !foundPair {
		t.Error("expected a semantic edge between n1 and n2")
	}
}

func TestBuildSemanticPassCapped(t *testing.T) {
	// 12 identical documents, cap at 10: only the first 10 participate in
	// the similarity pass.
	var corpus []search.Document
	for i := 0; i < 12; i++ {
		corpus = append(corpus, search.Document{
			ID:      string(rune('a' + i)),
			Title:   "Identical note",
			Content: "identical content words everywhere in this note",
		})
	}

	mindMap := NewBuilder().Build(corpus)
	if got, want := mindMap.Stats.SemanticEdges, 10*9/2; got != want {
		t.Errorf("expected %d semantic edges from capped pass, got %d", want, got)
	}
}

func TestBuildTagEdges(t *testing.T) {
	mindMap := NewBuilder().Build(testCorpus())

	tagEdges := 0
	for _, edge := range mindMap.Edges {
		if edge.Kind == EdgeKindTag {
			tagEdges++
			if !strings.HasPrefix(edge.Target, "tag:") {
				t.Errorf("tag edge target should be a tag node, got %s", edge.Target)
			}
		}
	}
	if tagEdges != 3 {
		t.Errorf("expected 3 tag edges, got %d", tagEdges)
	}
}

func TestBuildPageRankWeights(t *testing.T) {
	mindMap := NewBuilder().Build(testCorpus())

	var maxWeight float64
	for _, node := range mindMap.Nodes {
		if node.Weight < 0 || node.Weight > 1 {
			t.Errorf("node %s weight %v out of [0,1]", node.ID, node.Weight)
		}
		if node.Weight > maxWeight {
			maxWeight = node.Weight
		}
	}
	if maxWeight != 1 {
		t.Errorf("max node weight should normalize to 1, got %v", maxWeight)
	}
}

func TestBuildCacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	builder := NewBuilder().WithCache(cache)
	corpus := testCorpus()

	first := builder.Build(corpus)
	second := builder.Build(corpus)

	if cache.hits == 0 {
		t.Fatal("second build should hit the cache")
	}
	if first.Stats != second.Stats {
		t.Errorf("cached stats mismatch: %+v vs %+v", first.Stats, second.Stats)
	}

	// Touching a document invalidates the corpus identity.
	corpus[0].UpdatedTs++
	builder.Build(corpus)
	if cache.misses < 2 {
		t.Errorf("expected a cache miss after corpus change, misses=%d", cache.misses)
	}
}

type fakeCache struct {
	data   map[string][]byte
	hits   int
	misses int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	value, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return value, ok
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) {
	c.data[key] = value
}
