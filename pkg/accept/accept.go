// Package accept parses Accept preference headers and selects a response
// media type against a registry. Parsing is fail-open per candidate: one
// malformed preference never blocks negotiation for the rest of the header.
package accept

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// Candidate is one parsed entry from an Accept header. The media-type token
// is unresolved; resolution against a registry happens at selection time so
// the wildcard can map to the registry default.
type Candidate struct {
	// Type is the raw media-type token (e.g. "application/json" or "*/*").
	Type mediatype.MediaType

	// Quality is the q-value in [0, 1]. It defaults to 1.0 when the entry
	// carries no q parameter and collapses to 0.0 when the q parameter is
	// present but unparsable. A zero-quality candidate is still valid; it
	// just loses against any positive weight.
	Quality float64
}

// Parse splits a raw Accept header into candidates ordered by descending
// quality. The sort is stable, so of two equally-weighted entries the one
// appearing first in the header wins. An absent or blank header is treated
// as a single wildcard candidate at weight 1.0.
func Parse(header string) []Candidate {
	if strings.TrimSpace(header) == "" {
		return []Candidate{{Type: mediatype.Wildcard, Quality: 1.0}}
	}

	var candidates []Candidate
	for _, segment := range strings.Split(header, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		token := segment
		quality := 1.0
		if idx := strings.Index(segment, ";"); idx >= 0 {
			token = strings.TrimSpace(segment[:idx])
			quality = parseQuality(segment[idx+1:])
		}
		if token == "" {
			continue
		}

		candidates = append(candidates, Candidate{
			Type:    mediatype.MediaType(token),
			Quality: quality,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Quality > candidates[j].Quality
	})
	return candidates
}

// parseQuality scans the parameter tail of one Accept entry for a q value.
// Parameters other than q are ignored. A missing q yields 1.0; a q that is
// present but does not parse yields 0.0 so the candidate survives with the
// lowest possible weight instead of poisoning the whole header.
func parseQuality(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		param = strings.TrimSpace(param)
		value, found := strings.CutPrefix(param, "q=")
		if !found {
			continue
		}
		q, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0.0
		}
		return clampQuality(q)
	}
	return 1.0
}

// clampQuality bounds a parsed q value to [0, 1].
func clampQuality(q float64) float64 {
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

// Negotiate selects the response media type for a request: it parses the
// header, resolves each candidate against the registry (exact match, or
// wildcard to the registry default), discards unresolvable tokens, and picks
// the highest-quality survivor. Selection is deterministic for a fixed
// header and registry because Parse's ordering is stable. ok is false when
// no candidate resolves, meaning no acceptable output format exists.
func Negotiate(header string, reg *mediatype.Registry) (mediatype.MediaType, bool) {
	for _, candidate := range Parse(header) {
		if resolved, ok := reg.Resolve(candidate.Type); ok {
			return resolved, true
		}
	}
	return "", false
}
