package domain

// BatchFailure records a single item's failure inside a batch operation that
// must keep going; batches return these alongside their summary counts.
type BatchFailure struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// CleanupSummary reports what the inactive-member purge removed.
type CleanupSummary struct {
	MembersRemoved int            `json:"members_removed"`
	FilesRemoved   int            `json:"files_removed"`
	Failures       []BatchFailure `json:"failures,omitempty"`
}

// DuesRefreshSummary reports a batch recomputation of leaving-request dues.
type DuesRefreshSummary struct {
	Refreshed int            `json:"refreshed"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}
