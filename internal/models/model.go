package models

import "time"

// TrainingSample is one (features, score) pair recorded by a scoring call.
type TrainingSample struct {
	Features  []float64
	Score     float64
	CreatedAt time.Time
}

// CacheKey identifies a cached lookup on a roughly 1 km grid.
type CacheKey struct {
	Lat    float64
	Lng    float64
	Radius float64
}

// CacheEntry is a cached Water Quality Portal summary with its fetch time.
type CacheEntry struct {
	Key       CacheKey
	Summary   WaterQualitySummary
	FetchedAt time.Time
}
