// Package featureflags evaluates runtime switches read from FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flag names a runtime switch.
type Flag string

const (
	// QuestionListCache serves question list pages through Redis.
	QuestionListCache Flag = "question_list_cache"
	// QuestionDetailCache serves question detail pages through Redis.
	QuestionDetailCache Flag = "question_detail_cache"
)

// Known lists every flag the application reads.
var Known = []Flag{QuestionListCache, QuestionDetailCache}

type rule struct {
	raw     string
	percent int // 0..100; 100 is fully on
}

// Manager evaluates flags defined as a comma separated key=value list.
// Example: "question_list_cache=on,question_detail_cache=25%"
type Manager struct {
	rules map[Flag]rule
}

// NewManager parses raw. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[Flag]rule)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		pct, ok := parsePercent(value)
		if !ok {
			continue
		}
		rules[Flag(key)] = rule{raw: value, percent: pct}
	}
	return &Manager{rules: rules}
}

func parsePercent(value string) (int, bool) {
	switch value {
	case "on", "true", "1":
		return 100, true
	case "off", "false", "0":
		return 0, true
	}
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		return 0, false
	}
	return min(max(pct, 0), 100), true
}

// Enabled reports whether flag is on for userID.
// Partial rollouts bucket users deterministically; anonymous callers (userID 0) are never in a partial rollout.
func (m *Manager) Enabled(flag Flag, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[Flag(normalize(string(flag)))]
	if !ok {
		return false
	}
	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0, userID == 0:
		return false
	default:
		return rolloutBucket(flag, userID) < r.percent
	}
}

// Raw returns the configured value of every parsed flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[string(name)] = r.raw
	}
	return out
}

// Snapshot evaluates every configured flag for userID.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[string(name)] = m.Enabled(name, userID)
	}
	return out
}

// Unknown lists configured flags the application never reads, sorted.
func (m *Manager) Unknown() []string {
	known := make(map[Flag]struct{}, len(Known))
	for _, f := range Known {
		known[f] = struct{}{}
	}
	var out []string
	for name := range m.rules {
		if _, ok := known[name]; !ok {
			out = append(out, string(name))
		}
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(flag Flag, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(string(flag)), userID)
	return int(h.Sum32() % 100)
}
