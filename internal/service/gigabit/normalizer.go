// Package gigabit summarizes the status of the router's physical interfaces.
package gigabit

import (
	"fmt"
	"strings"

	"github.com/sandevgo/routerbot/internal/core"
)

const (
	intfPrefix = "GigabitEthernet"
	intfCount  = 4
)

// Classify maps a raw status column to up, down or administratively down.
// Anything unrecognised is down.
func Classify(raw string) core.LinkStatus {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case status == "up":
		return core.StatusUp
	case strings.Contains(status, "admin"):
		return core.StatusAdminDown
	default:
		return core.StatusDown
	}
}

// Summarize renders GigabitEthernet1..4 in index order followed by the
// per-class counts. Interfaces without a row are down.
func Summarize(rows []core.InterfaceRow) string {
	statuses := make(map[string]core.LinkStatus, len(rows))
	for _, row := range rows {
		if !strings.HasPrefix(row.Intf, intfPrefix) {
			continue
		}
		statuses[row.Intf] = Classify(row.Status)
	}

	parts := make([]string, 0, intfCount)
	counts := make(map[core.LinkStatus]int, 3)
	for i := 1; i <= intfCount; i++ {
		name := fmt.Sprintf("%s%d", intfPrefix, i)
		st, ok := statuses[name]
		if !ok {
			st = core.StatusDown
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, st))
		counts[st]++
	}

	return fmt.Sprintf("%s -> %d up, %d down, %d administratively down",
		strings.Join(parts, ", "),
		counts[core.StatusUp],
		counts[core.StatusDown],
		counts[core.StatusAdminDown],
	)
}
