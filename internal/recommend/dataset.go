package recommend

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mixmateai/mixmate/internal/domain"
)

var requiredColumns = []string{"track_name", "artist_name", "danceability", "energy", "valence", "tempo"}

// Load reads the feature dataset at path and builds an index over it.
func Load(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	tracks, err := ReadTracks(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	slog.Info("Recommendation dataset loaded", "path", path, "tracks", len(tracks))
	return New(tracks), nil
}

// ReadTracks parses a CSV with a header row. Rows missing any required
// column are skipped.
func ReadTracks(r io.Reader) ([]domain.TrackFeatures, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	positions := make([]int, len(requiredColumns))
	for i, name := range requiredColumns {
		pos, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		positions[i] = pos
	}

	var tracks []domain.TrackFeatures
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		track, ok := parseTrack(record, positions)
		if !ok {
			skipped++
			continue
		}
		tracks = append(tracks, track)
	}

	if skipped > 0 {
		slog.Debug("Skipped incomplete dataset rows", "count", skipped)
	}
	return tracks, nil
}

func parseTrack(record []string, positions []int) (domain.TrackFeatures, bool) {
	values := make([]string, len(positions))
	for i, pos := range positions {
		if pos >= len(record) {
			return domain.TrackFeatures{}, false
		}
		values[i] = strings.TrimSpace(record[pos])
		if values[i] == "" {
			return domain.TrackFeatures{}, false
		}
	}

	features := make([]float64, 4)
	for i := range features {
		f, err := strconv.ParseFloat(values[i+2], 64)
		// ParseFloat accepts "nan" and "inf"; those count as missing.
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.TrackFeatures{}, false
		}
		features[i] = f
	}

	return domain.TrackFeatures{
		Name:         values[0],
		Artist:       values[1],
		Danceability: features[0],
		Energy:       features[1],
		Valence:      features[2],
		Tempo:        features[3],
	}, true
}
