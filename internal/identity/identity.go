// Package identity infers human names for email addresses using the speaker
// lists observed on each communication record.
package identity

import (
	"sort"
	"strings"

	"starmill/internal/payload"
)

// Speaker is a normalized speaker descriptor, comparable against email
// local-parts.
type Speaker struct {
	FullName string // trimmed, case preserved
	First    string // lowercased first whitespace-delimited token
	Last     string // lowercased last whitespace-delimited token
}

// NormalizeSpeakers converts raw speaker descriptors into comparable name
// tokens. Descriptors with absent or blank names are skipped. The result is
// per-record state and must not be cached across records.
func NormalizeSpeakers(speakers []payload.Speaker) []Speaker {
	var out []Speaker
	for _, s := range speakers {
		full := strings.TrimSpace(s.Name)
		if full == "" {
			continue
		}
		tokens := strings.Fields(full)
		out = append(out, Speaker{
			FullName: full,
			First:    strings.ToLower(tokens[0]),
			Last:     strings.ToLower(tokens[len(tokens)-1]),
		})
	}
	return out
}

// ResolutionContext tracks speaker full names already claimed by some email
// during inference. It is owned by a single pipeline run and starts empty;
// a name can be claimed by at most one email across the whole run.
type ResolutionContext struct {
	claimed map[string]struct{}
}

// NewResolutionContext returns a fresh context with no claimed names.
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{claimed: make(map[string]struct{})}
}

// Claimed reports whether a full name has already been claimed.
func (c *ResolutionContext) Claimed(name string) bool {
	_, ok := c.claimed[name]
	return ok
}

// Claim marks a full name as taken for the rest of the run.
func (c *ResolutionContext) Claim(name string) {
	c.claimed[name] = struct{}{}
}

// InferName returns the best-matching unclaimed speaker full name for an email
// address, claiming it in the context so no later email can reuse it.
//
// The comparison token is the email local-part, lowercased with "." and "_"
// stripped. A speaker scores 2 when both its first and last tokens are
// substrings of the comparison token, 1 when exactly one is, and is excluded at
// 0. The highest score wins; ties break by reverse-lexicographic full name,
// which is arbitrary but deterministic.
//
// Because winners are claimed as inference proceeds, results depend on the
// order emails are resolved across the batch: first-come emails preferentially
// claim a matching name. That ordering is intentional and relied upon.
func InferName(email string, speakers []Speaker, ctx *ResolutionContext) (string, bool) {
	if email == "" {
		return "", false
	}

	local := strings.ToLower(email)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	local = strings.ReplaceAll(local, ".", "")
	local = strings.ReplaceAll(local, "_", "")

	type candidate struct {
		score int
		full  string
	}
	var candidates []candidate
	for _, s := range speakers {
		if ctx.Claimed(s.FullName) {
			continue
		}
		score := 0
		first := strings.Contains(local, s.First)
		last := strings.Contains(local, s.Last)
		switch {
		case first && last:
			score = 2
		case first || last:
			score = 1
		}
		if score > 0 {
			candidates = append(candidates, candidate{score, s.FullName})
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].full > candidates[j].full
	})

	selected := candidates[0].full
	ctx.Claim(selected)
	return selected, true
}
