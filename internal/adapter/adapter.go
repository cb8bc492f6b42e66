// Package adapter translates provider-native export records into canonical
// stream events. A malformed record is counted and skipped, never fatal:
// callers report the failure count as a data-loss statistic.
package adapter

import "github.com/zachstanford/wrapped-reimagined/internal/model"

// Result is the outcome of parsing one provider's raw records.
type Result struct {
	Events []model.StreamEvent

	// Parsed counts records that produced an event, Failed counts
	// malformed records that were dropped.
	Parsed int
	Failed int
}
