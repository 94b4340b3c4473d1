package tui

import "patrol-agent/src/contracts"

// Item wraps an archived AnalysisResult and implements bubbles/list.Item.
type Item struct {
	Analysis contracts.AnalysisResult
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Analysis.RootCause }

// Title returns the primary text for the item.
func (i Item) Title() string { return i.Analysis.RootCause }

// Description returns the secondary text for the item.
func (i Item) Description() string { return i.Analysis.SuggestedFix }

// ShortFingerprint returns the fingerprint prefix shown in the list.
func (i Item) ShortFingerprint() string {
	if len(i.Analysis.Fingerprint) > 8 {
		return i.Analysis.Fingerprint[:8]
	}
	return i.Analysis.Fingerprint
}
