package models

// Outcome is the local result of one trigger invocation. It is only
// logged and counted; it never travels back to the trigger source.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)
