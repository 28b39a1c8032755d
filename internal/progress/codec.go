package progress

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rhseung/ps-cli-sub001/internal/types"
)

// TimestampLayout is the ISO-8601 form timestamps are written in: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type fileRecord struct {
	WorkbookID int                    `json:"workbookId"`
	Problems   map[string]problemFile `json:"problems"`
	UpdatedAt  string                 `json:"updatedAt"`
}

type problemFile struct {
	Status          types.Status `json:"status"`
	AttemptCount    int          `json:"attemptCount"`
	LastAttemptedAt *string      `json:"lastAttemptedAt,omitempty"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func encode(p *types.WorkbookProgress) ([]byte, error) {
	record := fileRecord{
		WorkbookID: p.WorkbookID,
		Problems:   make(map[string]problemFile, len(p.Problems)),
		UpdatedAt:  FormatTimestamp(p.UpdatedAt),
	}
	for problemID, entry := range p.Problems {
		if entry == nil {
			continue
		}
		pf := problemFile{
			Status:       entry.Status,
			AttemptCount: entry.AttemptCount,
		}
		if entry.LastAttemptedAt != nil {
			ts := FormatTimestamp(*entry.LastAttemptedAt)
			pf.LastAttemptedAt = &ts
		}
		record.Problems[strconv.Itoa(problemID)] = pf
	}
	return json.MarshalIndent(record, "", "  ")
}

func decode(data []byte) (*types.WorkbookProgress, error) {
	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse progress JSON: %w", err)
	}

	updatedAt, err := parseTimestamp(record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt: %w", err)
	}

	p := types.NewWorkbookProgress(record.WorkbookID, updatedAt)
	for key, pf := range record.Problems {
		problemID, err := strconv.Atoi(key)
		if err != nil || problemID <= 0 {
			return nil, fmt.Errorf("invalid problem id %q", key)
		}
		entry := &types.ProblemProgress{
			Status:       pf.Status,
			AttemptCount: pf.AttemptCount,
		}
		if pf.LastAttemptedAt != nil {
			ts, err := parseTimestamp(*pf.LastAttemptedAt)
			if err != nil {
				return nil, fmt.Errorf("invalid lastAttemptedAt for problem %d: %w", problemID, err)
			}
			entry.LastAttemptedAt = &ts
		}
		p.Problems[problemID] = entry
	}
	return p, nil
}
