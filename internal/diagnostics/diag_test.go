package diagnostics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRing(t *testing.T) {
	l := NewLog(3)
	for _, c := range []string{"A", "B", "C", "D"} {
		l.Push(Diagnostic{Severity: Info, Code: c})
	}
	got := l.Recent()
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Code)
	assert.Equal(t, "D", got[2].Code)
	assert.False(t, got[0].Time.IsZero())
}

func TestLogPartial(t *testing.T) {
	l := NewLog(0)
	l.Push(Diagnostic{Code: RenderDirect})
	got := l.Recent()
	require.Len(t, got, 1)
	assert.Equal(t, RenderDirect, got[0].Code)
}

func TestSubscribeDropsWhenBusy(t *testing.T) {
	l := NewLog(8)
	ch, cancel := l.Subscribe(1)
	l.Push(Diagnostic{Code: "first"})
	l.Push(Diagnostic{Code: "second"})

	select {
	case d := <-ch:
		assert.Equal(t, "first", d.Code)
	case <-time.After(time.Second):
		t.Fatal("no diagnostic delivered")
	}
	select {
	case d := <-ch:
		t.Fatalf("unexpected %s", d.Code)
	default:
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	l.Push(Diagnostic{Code: "after"})
}
