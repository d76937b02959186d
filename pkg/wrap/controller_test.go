package wrap_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/softwrap-go/pkg/wrap"
	"github.com/mauromedda/softwrap-go/pkg/wrap/measure"
)

func TestControllerSyncUnwrapped(t *testing.T) {
	t.Parallel()

	buf := newBuffer(t, "hello")
	c := wrap.NewController(buf, measure.ColumnMeasurer{})

	newBuf, edits, err := buf.Edit(
		wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 5}},
		wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 5}},
		" world",
	)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	snap, _ := c.Sync(newBuf, edits)
	var sb strings.Builder
	for chunk := range snap.TextChunks(0) {
		sb.WriteString(chunk)
	}
	if got := sb.String(); got != "hello world" {
		t.Errorf("snapshot text = %q, want %q", got, "hello world")
	}
}

func TestControllerSetWrapWidthForcesRewrap(t *testing.T) {
	t.Parallel()

	buf := newBuffer(t, "abcdefgh")
	c := wrap.NewController(buf, measure.ColumnMeasurer{})

	width := 3.0
	c.SetWrapWidth(&width)

	deadline := time.Now().Add(time.Second)
	var snap wrap.Snapshot
	for time.Now().Before(deadline) {
		snap, _ = c.Sync(buf, nil)
		if snap.MaxPoint().Row > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("expected wrapping to introduce additional rows within the deadline")
}

func TestControllerOnChangeFiresAfterSync(t *testing.T) {
	t.Parallel()

	buf := newBuffer(t, "x")
	c := wrap.NewController(buf, measure.ColumnMeasurer{})

	done := make(chan struct{}, 1)
	c.OnChange(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	c.Sync(buf, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnChange was not invoked after Sync")
	}
}
