package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/coder/hnsw"
)

// HNSW index parameters for 128-dim geometric embeddings
const (
	// hnswMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	hnswMaxNeighbors = 16
)

// Neighbor is one result of an approximate nearest neighbor search.
type Neighbor struct {
	Record     *EnrollmentRecord
	Similarity float64
}

// IdentityIndex wraps an HNSW graph over enrolled embeddings. It backs
// the similar-identities query only; recognition itself scans the
// enrolled set exhaustively.
type IdentityIndex struct {
	graph      *hnsw.Graph[string]
	idToRecord map[string]*EnrollmentRecord
	mu         sync.RWMutex
	path       string
}

// NewIdentityIndex creates a new empty index.
func NewIdentityIndex() *IdentityIndex {
	return &IdentityIndex{
		idToRecord: make(map[string]*EnrollmentRecord),
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.CosineDistance
	return g
}

// Build replaces the index contents with the given records.
func (idx *IdentityIndex) Build(records []EnrollmentRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(records) == 0 {
		idx.graph = nil
		idx.idToRecord = make(map[string]*EnrollmentRecord)
		return nil
	}

	g := newGraph()
	idx.idToRecord = make(map[string]*EnrollmentRecord, len(records))

	for i := range records {
		rec := &records[i]
		if len(rec.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(rec.ID.String(), rec.Embedding))
		idx.idToRecord[rec.ID.String()] = rec
	}

	idx.graph = g
	return nil
}

// Add inserts a single record into the index.
func (idx *IdentityIndex) Add(rec *EnrollmentRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(rec.Embedding) == 0 {
		return
	}

	if idx.graph == nil {
		idx.graph = newGraph()
	}

	idx.graph.Add(hnsw.MakeNode(rec.ID.String(), rec.Embedding))
	idx.idToRecord[rec.ID.String()] = rec
}

// Delete removes a record from the index. The graph keeps the node but
// lookups filter through idToRecord, so the record stops appearing in
// results.
func (idx *IdentityIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.idToRecord, id)
}

// Nearest finds the k most similar enrolled identities to the query.
// Deleted records are filtered out, so fewer than k results may return.
func (idx *IdentityIndex) Nearest(query []float32, k int) []Neighbor {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil {
		return nil
	}

	nodes := idx.graph.Search(query, k)

	neighbors := make([]Neighbor, 0, len(nodes))
	for _, n := range nodes {
		rec, ok := idx.idToRecord[n.Key]
		if !ok {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Record:     rec,
			Similarity: cosineSimilarity(query, n.Value),
		})
	}
	return neighbors
}

// Count returns the number of indexed identities.
func (idx *IdentityIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.idToRecord)
}

// SetPath sets the path for saving the index.
func (idx *IdentityIndex) SetPath(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.path = path
}

// Save persists the graph to disk. Records themselves live in the
// database; on startup the index is rebuilt from All.
func (idx *IdentityIndex) Save() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.path == "" {
		return nil // No path set
	}

	if idx.graph == nil {
		// Remove existing file if index is empty (best-effort cleanup).
		_ = os.Remove(idx.path)
		return nil
	}

	f, err := os.Create(idx.path) //nolint:gosec // path is from trusted config
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	defer f.Close()

	if err := idx.graph.Export(f); err != nil {
		return fmt.Errorf("exporting index graph: %w", err)
	}
	return nil
}

// cosineSimilarity is the similarity reported for index neighbors.
// Embeddings are stored unit-length so the dot product suffices.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
