package parser

import (
	"sort"

	"github.com/buslog-visualizer/backend/internal/models"
)

// MergeRecords merges multiple parse results into one timeline. Each
// record is tagged with its source file ID, then the combined set is
// sorted by timestamp and reindexed. Duplicate frames are kept; two
// loggers on the same bus legitimately capture the same frame.
func MergeRecords(results []*models.ParsedRecords, sourceIDs []string) *models.ParsedRecords {
	if len(results) == 0 {
		return models.NewParsedRecords()
	}

	if len(results) == 1 {
		result := results[0]
		if len(sourceIDs) > 0 {
			for i := range result.Records {
				result.Records[i].SourceID = sourceIDs[0]
			}
		}
		return result
	}

	total := 0
	for _, r := range results {
		total += len(r.Records)
	}

	merged := &models.ParsedRecords{
		Records:  make([]models.RecordView, 0, total),
		Channels: make(map[string]struct{}),
		Buses:    make(map[models.Bus]struct{}),
	}

	for i, r := range results {
		sourceID := ""
		if i < len(sourceIDs) {
			sourceID = sourceIDs[i]
		}

		for _, rv := range r.Records {
			rv.SourceID = sourceID
			merged.Records = append(merged.Records, rv)
		}

		for ch := range r.Channels {
			merged.Channels[ch] = struct{}{}
		}
		for bus := range r.Buses {
			merged.Buses[bus] = struct{}{}
		}
		merged.Skipped += r.Skipped
	}

	sort.SliceStable(merged.Records, func(i, j int) bool {
		return merged.Records[i].Timestamp.Before(merged.Records[j].Timestamp)
	})
	for i := range merged.Records {
		merged.Records[i].Index = i
	}

	if len(merged.Records) > 0 {
		merged.TimeRange = &models.TimeRange{
			Start: merged.Records[0].Timestamp,
			End:   merged.Records[len(merged.Records)-1].Timestamp,
		}
	}

	return merged
}
