package types

// SearchResult is one row of a metadata-site search page.
type SearchResult struct {
	ProblemID    int      `json:"problemId"`
	Title        string   `json:"title"`
	Level        *int     `json:"level,omitempty"`
	SolvedCount  *int     `json:"solvedCount,omitempty"`
	AverageTries *float64 `json:"averageTries,omitempty"`
}

// SearchResults is one page of search results plus pagination metadata.
// TotalPages is 0 when the query matched nothing.
type SearchResults struct {
	Results     []SearchResult `json:"results"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}

// MaxLevel is the highest difficulty tier reported by the metadata site.
const MaxLevel = 31

// ValidLevel reports whether level is inside the 0..MaxLevel tier range.
func ValidLevel(level int) bool {
	return level >= 0 && level <= MaxLevel
}
