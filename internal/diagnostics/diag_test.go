package diagnostics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogKeepsNewest(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 5; i++ {
		l.Add(Diagnostic{Severity: Info, Code: fmt.Sprintf("C%d", i)})
	}
	got := l.Recent()
	assert.Len(t, got, 3)
	assert.Equal(t, "C2", got[0].Code)
	assert.Equal(t, "C4", got[2].Code)
	assert.False(t, got[2].At.IsZero())
}

func TestProfileFallback(t *testing.T) {
	d := ProfileFallback("progress", "spinner", "opacity_test_stub")
	assert.Equal(t, Warn, d.Severity)
	assert.Equal(t, "spinner", d.Evidence["name"])
	assert.Contains(t, d.Detail, "opacity_test_stub")
}
