package domain

// TrackFeatures holds the audio features of one dataset track used for
// recommendations.
type TrackFeatures struct {
	Name         string  `json:"track_name"`
	Artist       string  `json:"artist_name"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// Vector returns the features in danceability, energy, valence, tempo order.
func (t TrackFeatures) Vector() []float64 {
	return []float64{t.Danceability, t.Energy, t.Valence, t.Tempo}
}
