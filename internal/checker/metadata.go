package checker

import "time"

// Metadata summarises one document check.
type Metadata struct {
	WordCount       int           `json:"word_count"`
	ParagraphCount  int           `json:"paragraph_count"`
	RequestDuration time.Duration `json:"request_duration"`
}
