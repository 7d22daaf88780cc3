package httpapi

import "github.com/oceanwx/marine-aggregator/internal/catalogue"

// featureCollection mirrors the schema the catalogue itself is loaded
// from: a GeoJSON FeatureCollection of Point features carrying id, name,
// type, and hasRealTimeData.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Geometry   pointGeometry   `json:"geometry"`
	Properties stationProperty `json:"properties"`
}

type pointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type stationProperty struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	HasRealTimeData bool   `json:"hasRealTimeData"`
}

func toFeatureCollection(stations []catalogue.Station) featureCollection {
	features := make([]feature, len(stations))
	for i, s := range stations {
		features[i] = feature{
			Type:     "Feature",
			Geometry: pointGeometry{Type: "Point", Coordinates: []float64{s.Lon, s.Lat}},
			Properties: stationProperty{
				ID:              s.ID,
				Name:            s.Name,
				Type:            s.Type,
				HasRealTimeData: s.HasRealTimeData,
			},
		}
	}
	return featureCollection{Type: "FeatureCollection", Features: features}
}
