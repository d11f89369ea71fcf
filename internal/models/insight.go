package models

import "time"

// InsightRecord is the daily quote, its author, and a spring fact
type InsightRecord struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Fact   string `json:"fact"`
}

// IsComplete reports whether every field is populated
func (r InsightRecord) IsComplete() bool {
	return r.Quote != "" && r.Author != "" && r.Fact != ""
}

// CachedInsight is the persisted form of an InsightRecord
type CachedInsight struct {
	Data      InsightRecord `json:"data"`
	Timestamp int64         `json:"timestamp"` // epoch milliseconds
}

// FetchedAt returns the cache timestamp as a time in loc
func (c CachedInsight) FetchedAt(loc *time.Location) time.Time {
	return time.UnixMilli(c.Timestamp).In(loc)
}
