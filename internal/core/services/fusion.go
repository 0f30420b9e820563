package services

import "sort"

// fusedHit is one chunk's position after reciprocal rank fusion of the
// lexical and dense rankings.
type fusedHit struct {
	ChunkID     string
	Score       float64
	LexicalRank int
	DenseRank   int
}

// fuseRanked merges the lexical and dense ranked ID lists with
// reciprocal rank fusion: each list contributes 1/(k + rank) for every
// chunk it contains, rank 1-based. Raw BM25 scores and cosine
// similarities never mix; only ranks do.
//
// Ordering is fully deterministic: fused score descending, then
// presence in both lists before presence in one, then chunk ID
// ascending.
func fuseRanked(lexical, dense []string, kConstant int) []fusedHit {
	byID := make(map[string]*fusedHit, len(lexical)+len(dense))

	add := func(ids []string, setRank func(*fusedHit, int)) {
		for i, id := range ids {
			rank := i + 1
			hit, ok := byID[id]
			if !ok {
				hit = &fusedHit{ChunkID: id}
				byID[id] = hit
			}
			hit.Score += 1 / float64(kConstant+rank)
			setRank(hit, rank)
		}
	}
	add(lexical, func(h *fusedHit, r int) { h.LexicalRank = r })
	add(dense, func(h *fusedHit, r int) { h.DenseRank = r })

	fused := make([]fusedHit, 0, len(byID))
	for _, hit := range byID {
		fused = append(fused, *hit)
	}
	sort.Slice(fused, func(i, j int) bool {
		a, b := fused[i], fused[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if an, bn := listCount(a), listCount(b); an != bn {
			return an > bn
		}
		return a.ChunkID < b.ChunkID
	})
	return fused
}

func listCount(h fusedHit) int {
	n := 0
	if h.LexicalRank > 0 {
		n++
	}
	if h.DenseRank > 0 {
		n++
	}
	return n
}
