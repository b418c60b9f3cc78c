package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []Flag{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 0), "flag %s", name)
	}
	for _, name := range []Flag{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), "flag %s", name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=250%")

	assert.True(t, m.Enabled("always", 1))
	assert.True(t, m.Enabled("over", 1))
	assert.False(t, m.Enabled("never", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", 0), "anonymous callers are outside partial rollouts")

	in := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			in++
		}
	}
	assert.InDelta(t, 250, in, 100)
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 20% ,z=off, w=maybe ")

	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, m.Raw())
	assert.Len(t, m.Snapshot(123), 3)
	assert.Equal(t, []string{"x", "y", "z"}, m.Unknown())
}

func TestKnownFlags(t *testing.T) {
	m := NewManager("question_list_cache=on")
	assert.True(t, m.Enabled(QuestionListCache, 0))
	assert.False(t, m.Enabled(QuestionDetailCache, 0))
	assert.Empty(t, m.Unknown())

	var nilManager *Manager
	assert.False(t, nilManager.Enabled(QuestionListCache, 1))
}
