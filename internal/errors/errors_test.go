package errors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanErrorFormat(t *testing.T) {
	withLine := &ScanError{Path: "readme.md", Line: 12, Message: "unterminated code fence", Severity: SeverityWarning}
	assert.Equal(t, "readme.md:12: warning: unterminated code fence", withLine.Error())

	withoutLine := &ScanError{Path: "locked.md", Message: "permission denied", Severity: SeverityIO}
	assert.Equal(t, "locked.md: io-error: permission denied", withoutLine.Error())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "io-error", SeverityIO.String())
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add(ScanError{Path: "a.md", Severity: SeverityWarning, Message: "w"})
	c.AddIOError("b.md", fmt.Errorf("open b.md: no such file"))

	require.True(t, c.HasErrors())
	assert.Len(t, c.All(), 2)
	assert.Len(t, c.BySeverity(SeverityWarning), 1)
	assert.Len(t, c.BySeverity(SeverityIO), 1)
	assert.Empty(t, c.BySeverity(SeverityError))

	for _, err := range c.All() {
		assert.False(t, err.Timestamp.IsZero())
	}

	c.Clear()
	assert.False(t, c.HasErrors())
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Add(ScanError{Path: fmt.Sprintf("doc%d.md", n), Severity: SeverityWarning})
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.All(), 50)
}
