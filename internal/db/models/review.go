package models

// ReviewStatus is the state of a request awaiting a decision.
type ReviewStatus string

const (
	// StatusPending marks a request that has not been reviewed yet.
	StatusPending ReviewStatus = "pending"
	// StatusApproved marks an accepted request.
	StatusApproved ReviewStatus = "approved"
	// StatusRejected marks a declined request.
	StatusRejected ReviewStatus = "rejected"
)
