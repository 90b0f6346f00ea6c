package service

import (
	"sort"

	trackers "capturebox/internal/services/trackers/domain"
)

// attempt is one evaluated candidate of a fallback chain
type attempt struct {
	Tracker string
	OK      bool
}

// firstSuccess tries candidates in order and stops at the first write that
// lands. Every attempt made is returned.
func firstSuccess(candidates []string, try func(id string) bool) ([]attempt, string, bool) {
	out := make([]attempt, 0, len(candidates))
	for _, id := range candidates {
		ok := try(id)
		out = append(out, attempt{Tracker: id, OK: ok})
		if ok {
			return out, id, true
		}
	}
	return out, "", false
}

// reviewChain is where a capture lands when the review queue is unreachable
func reviewChain() []string {
	return []string{trackers.ReviewID, trackers.InboxID, trackers.SystemID}
}

// emergencyChain is review, inbox, then every other tracker by id
func emergencyChain(known []trackers.Tracker) []string {
	out := []string{trackers.ReviewID, trackers.InboxID}
	rest := make([]string, 0, len(known))
	for _, t := range known {
		if t.ID != trackers.ReviewID && t.ID != trackers.InboxID {
			rest = append(rest, t.ID)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
