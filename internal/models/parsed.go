package models

import "time"

// ParsedRecords is the in-memory result of parsing a log file. Large
// files go to the DuckDB-backed store instead; this form backs small
// files and merged multi-file sessions.
type ParsedRecords struct {
	Records   []RecordView        `json:"records"`
	Channels  map[string]struct{} `json:"channels"`
	Buses     map[Bus]struct{}    `json:"buses"`
	TimeRange *TimeRange          `json:"timeRange,omitempty"`
	Skipped   int                 `json:"skipped"`
}

// TimeRange represents a time window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewParsedRecords creates a new empty ParsedRecords.
func NewParsedRecords() *ParsedRecords {
	return &ParsedRecords{
		Records:  make([]RecordView, 0),
		Channels: make(map[string]struct{}),
		Buses:    make(map[Bus]struct{}),
	}
}

// Add appends a record and updates the channel, bus and time-range
// aggregates.
func (p *ParsedRecords) Add(rv RecordView) {
	p.Records = append(p.Records, rv)
	if rv.ChannelName != "" {
		p.Channels[rv.ChannelName] = struct{}{}
	}
	p.Buses[rv.Bus] = struct{}{}
	if p.TimeRange == nil {
		p.TimeRange = &TimeRange{Start: rv.Timestamp, End: rv.Timestamp}
		return
	}
	if rv.Timestamp.Before(p.TimeRange.Start) {
		p.TimeRange.Start = rv.Timestamp
	}
	if rv.Timestamp.After(p.TimeRange.End) {
		p.TimeRange.End = rv.Timestamp
	}
}
