// Package recommend finds songs with similar audio features using a
// Euclidean nearest-neighbour search over a static dataset.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/mixmateai/mixmate/internal/domain"
)

const DefaultTopN = 5

var ErrSongNotFound = errors.New("song not found in dataset")

// Index is built once and never modified, so it is safe for concurrent use.
type Index struct {
	tracks  []domain.TrackFeatures
	vectors [][]float64
	byName  map[string]int
}

// New builds an index over tracks. The slice is copied.
func New(tracks []domain.TrackFeatures) *Index {
	idx := &Index{
		tracks:  make([]domain.TrackFeatures, len(tracks)),
		vectors: make([][]float64, len(tracks)),
		byName:  make(map[string]int, len(tracks)),
	}
	copy(idx.tracks, tracks)

	for i, track := range idx.tracks {
		idx.vectors[i] = track.Vector()
		if _, exists := idx.byName[track.Name]; !exists {
			idx.byName[track.Name] = i
		}
	}
	return idx
}

// Len returns the number of tracks in the index.
func (idx *Index) Len() int {
	return len(idx.tracks)
}

type neighbour struct {
	position int
	distance float64
}

// Recommend returns up to topN track names closest to title, nearest first.
// The queried song itself is never part of the result.
func (idx *Index) Recommend(title string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	queryPos, ok := idx.byName[title]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrSongNotFound, title)
	}
	query := idx.vectors[queryPos]

	candidates := make([]neighbour, 0, len(idx.tracks))
	for i, track := range idx.tracks {
		if track.Name == title {
			continue
		}
		candidates = append(candidates, neighbour{
			position: i,
			distance: floats.Distance(query, idx.vectors[i], 2),
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].distance < candidates[b].distance
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, idx.tracks[c.position].Name)
	}
	return names, nil
}
