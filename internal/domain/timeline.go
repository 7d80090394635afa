package domain

import (
	"sort"
	"strings"
	"time"
)

// TimelineEntry is one status of an order's timeline. At is nil when the
// status has no recorded timestamp.
type TimelineEntry struct {
	Status OrderStatus
	At     *time.Time
}

// Timeline builds the de-duplicated status timeline of an order.
//
// Each status appears once with its newest timestamp. An empty history
// yields PLACED at the creation time. The current status is appended
// without a timestamp when the history does not mention it.
func Timeline(o Order) []TimelineEntry {
	current := currentStatus(o)
	byStatus := make(map[OrderStatus]*TimelineEntry)
	var order []OrderStatus

	put := func(st OrderStatus, at *time.Time) {
		existing, ok := byStatus[st]
		if !ok {
			byStatus[st] = &TimelineEntry{Status: st, At: at}
			order = append(order, st)
			return
		}
		if existing.At == nil || (at != nil && at.After(*existing.At)) {
			existing.At = at
		}
	}

	if len(o.StatusHistory) == 0 {
		created := o.CreatedAt
		var at *time.Time
		if !created.IsZero() {
			at = &created
		}
		put(StatusPlaced, at)
	} else {
		for _, step := range o.StatusHistory {
			put(OrderStatus(strings.ToUpper(string(step.Status))), step.At())
		}
	}
	if _, ok := byStatus[current]; !ok {
		put(current, nil)
	}

	entries := make([]TimelineEntry, 0, len(order))
	for _, st := range order {
		entries = append(entries, *byStatus[st])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Status.Rank() < entries[j].Status.Rank()
	})
	return entries
}

// StatusOptions returns the statuses an operator may pick for an order:
// every status except those with a recorded timestamp in the timeline,
// the current status always included.
func StatusOptions(o Order) []OrderStatus {
	current := currentStatus(o)
	marked := make(map[OrderStatus]bool)
	for _, entry := range Timeline(o) {
		if entry.At != nil && entry.Status != current {
			marked[entry.Status] = true
		}
	}
	var options []OrderStatus
	for _, st := range OrderStatuses {
		if !marked[st] {
			options = append(options, st)
		}
	}
	return options
}

func currentStatus(o Order) OrderStatus {
	if o.OrderStatus == "" {
		return StatusPlaced
	}
	return OrderStatus(strings.ToUpper(string(o.OrderStatus)))
}
