package ui

import "time"

// Grid geometry of the list view. Columns*Rows equals view.PageSize.
const (
	GridColumns = 3
	GridRows    = 3

	// CardMinWidth is the narrowest card before the grid collapses to one column.
	CardMinWidth = 28
)

// LayoutCompactWidth is the threshold below which the header drops detail.
const LayoutCompactWidth = 100

// ActivityLines is the number of log lines read into the activity view.
const ActivityLines = 500

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads the store.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a transient notification stays visible.
	ToastDuration = 3 * time.Second
)
