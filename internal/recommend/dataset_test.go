package recommend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mixmateai/mixmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	idx, err := Load(filepath.Join("testdata", "tracks.csv"))

	require.NoError(t, err)
	// Rows with a missing name, a missing feature or a non-numeric feature are dropped.
	assert.Equal(t, 6, idx.Len())
}

func TestLoadMissingFile(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "missing.csv"))

	assert.Error(t, err)
	assert.Nil(t, idx)
}

func TestReadTracks(t *testing.T) {
	data := "\ufefftrack_name,artist_name,danceability,energy,valence,tempo\n" +
		"Keys of Love,Aria,0.61,0.52,0.44,118\n" +
		" Slow River , Lune ,0.3,0.2,0.6,70.5\n" +
		"Short Row,Aria\n"

	tracks, err := ReadTracks(strings.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, []domain.TrackFeatures{
		{Name: "Keys of Love", Artist: "Aria", Danceability: 0.61, Energy: 0.52, Valence: 0.44, Tempo: 118},
		{Name: "Slow River", Artist: "Lune", Danceability: 0.3, Energy: 0.2, Valence: 0.6, Tempo: 70.5},
	}, tracks)
}

func TestReadTracksDropsNonFiniteFeatures(t *testing.T) {
	data := "track_name,artist_name,danceability,energy,valence,tempo\n" +
		"Q,Aria,0.5,0.5,0.5,100\n" +
		"Far,Aria,0.9,0.9,0.9,200\n" +
		"Bad,Aria,nan,0.5,0.5,100\n" +
		"Worse,Aria,0.5,Inf,0.5,100\n" +
		"Near,Aria,0.5,0.5,0.5,101\n"

	tracks, err := ReadTracks(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	recs, err := New(tracks).Recommend("Q", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near", "Far"}, recs)
}

func TestReadTracksMissingColumn(t *testing.T) {
	data := "track_name,artist_name,danceability,energy,valence\nA,B,0.1,0.2,0.3\n"

	_, err := ReadTracks(strings.NewReader(data))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"tempo"`)
}

func TestReadTracksEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
