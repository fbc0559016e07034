package editor

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/notes"
)

func TestScenario_SelectEditAndSave(t *testing.T) {
	h := newHarness(t)

	h.selectDay(d0)
	assert.Equal(t, "", h.ed.State().Content)
	assert.Equal(t, StatusIdle, h.ed.State().Status)

	h.selectDay(d1)
	assert.Equal(t, "hello", h.ed.State().Content)

	fx := h.ed.UpdateContent("hellox")
	assert.Equal(t, StatusDirty, h.ed.State().Status)
	require.NotNil(t, fx.Alarm)
	assert.Equal(t, h.ed.timer.Interval(), fx.Alarm.After)

	fx = h.fire(fx)
	require.Len(t, fx.Writes, 1)
	assert.Equal(t, notes.Write{Seq: fx.Writes[0].Seq, Day: d1, Content: "hellox"}, fx.Writes[0])
	assert.Equal(t, StatusSaving, h.ed.State().Status)

	assert.True(t, h.settle(fx).Empty())
	st := h.ed.State()
	assert.Equal(t, StatusSaved, st.Status)
	assert.False(t, st.LastSaved.IsZero())

	rec, ok := h.cache.Get(d1)
	require.True(t, ok)
	assert.Equal(t, "hellox", rec.Content)
	assert.Equal(t, st.LastSaved, rec.UpdatedAt)
	assert.False(t, h.ed.Pending())
}

func TestScenario_RapidKeystrokesCoalesce(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)

	first := h.ed.UpdateContent("a")
	second := h.ed.UpdateContent("ab")

	assert.Empty(t, h.fire(first).Writes, "superseded timer must not write")
	fx := h.fire(second)
	require.Len(t, fx.Writes, 1)
	assert.Equal(t, "ab", fx.Writes[0].Content)

	h.settle(fx)
	assert.Equal(t, 1, h.saveCount())
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestScenario_FailedSaveKeepsContentAndRetries(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	h.setFail(true)

	fx := h.fire(h.ed.UpdateContent("hello world"))
	retry := h.settle(fx)

	st := h.ed.State()
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, "hello world", st.Content)
	assert.ErrorIs(t, st.LastErr, errDiskFull)
	assert.Equal(t, "hello", h.ed.Session().Baseline())
	require.NotNil(t, retry.Alarm, "failure must arm a retry")

	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello", rec.Content)

	// A keystroke takes the session back to Dirty and the retry goes through.
	h.setFail(false)
	fx = h.ed.UpdateContent("hello world!")
	assert.Equal(t, StatusDirty, h.ed.State().Status)
	assert.Empty(t, h.ed.Fire(retry.Alarm.Token).Writes, "keystroke re-armed the timer")

	h.settle(h.fire(fx))
	st = h.ed.State()
	assert.Equal(t, StatusSaved, st.Status)
	assert.NoError(t, st.LastErr)
	assert.Zero(t, st.Failures)
}

func TestFailedSave_RetryAlarmWritesWithoutKeystroke(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)
	h.setFail(true)

	retry := h.settle(h.fire(h.ed.UpdateContent("x")))
	require.NotNil(t, retry.Alarm)
	assert.Equal(t, h.ed.timer.Interval(), retry.Alarm.After)

	// A second failure backs off further.
	again := h.settle(h.fire(retry))
	require.NotNil(t, again.Alarm)
	assert.Greater(t, again.Alarm.After, retry.Alarm.After)

	h.setFail(false)
	h.settle(h.fire(again))
	assert.Equal(t, StatusSaved, h.ed.State().Status)
	assert.Equal(t, 3, h.saveCount())
}

func TestEditDuringInflightWriteIsNeverMarkedSaved(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)

	fx := h.fire(h.ed.UpdateContent("hello a"))
	require.Len(t, fx.Writes, 1)

	// The user keeps typing while the write is on the wire.
	next := h.ed.UpdateContent("hello ab")
	require.NotNil(t, next.Alarm)

	after := h.settle(fx)
	st := h.ed.State()
	assert.Equal(t, StatusDirty, st.Status)
	assert.Equal(t, "hello ab", st.Content)
	require.NotNil(t, after.Alarm, "timer must be re-armed for the newer content")

	// The stale write still counts as persisted.
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello a", rec.Content)
	assert.Equal(t, "hello a", h.ed.Session().Baseline())

	h.settle(h.fire(after))
	assert.Equal(t, StatusSaved, h.ed.State().Status)
	rec, _ = h.cache.Get(d1)
	assert.Equal(t, "hello ab", rec.Content)
}

func TestOutOfOrderResolutionKeepsNewestContent(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)

	fx1 := h.fire(h.ed.UpdateContent("a"))
	fx2 := h.fire(h.ed.UpdateContent("ab"))
	require.Len(t, fx1.Writes, 1)
	require.Len(t, fx2.Writes, 1)

	r2 := h.flush(fx2.Writes[0])
	r1 := h.flush(fx1.Writes[0])
	assert.True(t, r1.Superseded)

	h.ed.Resolve(r2)
	assert.Equal(t, StatusSaved, h.ed.State().Status)
	h.ed.Resolve(r1)
	assert.Equal(t, StatusSaved, h.ed.State().Status)

	rec, _ := h.cache.Get(d0)
	assert.Equal(t, "ab", rec.Content)
}

func TestOlderResultDoesNotSettleNewerWrite(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)

	fx1 := h.fire(h.ed.UpdateContent("a"))
	fx2 := h.fire(h.ed.UpdateContent("ab"))

	h.ed.Resolve(h.flush(fx1.Writes[0]))
	assert.Equal(t, StatusSaving, h.ed.State().Status, "newer write still in flight")

	h.ed.Resolve(h.flush(fx2.Writes[0]))
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestRevertToBaselineCancelsTimer(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)

	fx := h.ed.UpdateContent("hello!")
	assert.Empty(t, h.ed.UpdateContent("hello").Writes)
	assert.Equal(t, StatusIdle, h.ed.State().Status)
	assert.Empty(t, h.fire(fx).Writes)
	assert.Zero(t, h.saveCount())
}

func TestRevertDuringInflightWriteStillWrites(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)

	fx := h.fire(h.ed.UpdateContent("hello!"))
	// Back to the baseline, but "hello!" is about to land in storage.
	back := h.ed.UpdateContent("hello")
	assert.Equal(t, StatusDirty, h.ed.State().Status)
	require.NotNil(t, back.Alarm)

	after := h.settle(fx)
	assert.Equal(t, StatusDirty, h.ed.State().Status)
	h.settle(h.fire(after))
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello", rec.Content)
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestEmptyNoteIsNotPersisted(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)

	fx := h.ed.UpdateContent("x")
	h.ed.UpdateContent("")
	assert.Empty(t, h.fire(fx).Writes)
	assert.Zero(t, h.saveCount())
	_, ok := h.cache.Get(d0)
	assert.False(t, ok)
}

func TestClearingPersistedNoteIsWritten(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)

	fx := h.fire(h.ed.UpdateContent(""))
	require.Len(t, fx.Writes, 1)
	assert.Equal(t, "", fx.Writes[0].Content)
	h.settle(fx)

	rec, ok := h.cache.Get(d1)
	require.True(t, ok)
	assert.True(t, rec.Empty())
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestSwitchDayWhileWriteInFlight(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	fx := h.fire(h.ed.UpdateContent("hello d1"))
	require.Len(t, fx.Writes, 1)

	h.selectDay(d0)
	h.ed.UpdateContent("today")

	// d1's write lands after the switch.
	assert.True(t, h.settle(fx).Empty(), "nothing to do for a replaced session")

	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello d1", rec.Content)

	st := h.ed.State()
	assert.Equal(t, d0, st.Day)
	assert.Equal(t, "today", st.Content)
	assert.Equal(t, StatusDirty, st.Status)
	assert.Empty(t, st.Unsynced)
}

func TestSwitchDayFlushesDirtyContent(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	pending := h.ed.UpdateContent("hello unsaved")

	fx := h.selectDay(d2)
	require.Len(t, fx.Writes, 1)
	assert.Equal(t, notes.Write{Seq: fx.Writes[0].Seq, Day: d1, Content: "hello unsaved"}, fx.Writes[0])
	assert.Empty(t, h.ed.Fire(pending.Alarm.Token).Writes, "old timer is cancelled")
	assert.Equal(t, []days.ID{d1}, h.ed.State().Unsynced)

	h.settle(fx)
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello unsaved", rec.Content)
	assert.False(t, h.ed.Pending())
}

func TestReselectDayAdoptsInflightWrite(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	fx := h.fire(h.ed.UpdateContent("hello again"))

	h.selectDay(d0)
	h.selectDay(d1)

	st := h.ed.State()
	assert.Equal(t, "hello again", st.Content, "must show unsaved text, not the older cached copy")
	assert.Equal(t, StatusSaving, st.Status)

	h.settle(fx)
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestBackgroundFailureIsRetried(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	fx := h.fire(h.ed.UpdateContent("hello bg"))
	h.selectDay(d0)

	h.setFail(true)
	out := h.settle(fx)
	require.Len(t, out.Retries, 1)
	r := out.Retries[0]
	assert.Equal(t, d1, r.Day)
	assert.True(t, h.ed.Pending())
	assert.Equal(t, []days.ID{d1}, h.ed.State().Unsynced)

	h.setFail(false)
	retry := h.ed.RetryBackground(r.Day, r.Seq)
	require.Len(t, retry.Writes, 1)
	assert.Equal(t, "hello bg", retry.Writes[0].Content)
	assert.Empty(t, h.ed.RetryBackground(r.Day, r.Seq).Writes, "retry token is single use")

	h.settle(retry)
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello bg", rec.Content)
	assert.False(t, h.ed.Pending())
	assert.Equal(t, d0, h.ed.State().Day)
}

func TestReselectFailedDayRestoresUnsavedText(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	fx := h.fire(h.ed.UpdateContent("hello lost?"))
	h.selectDay(d0)
	h.setFail(true)
	h.settle(fx)

	h.setFail(false)
	sel := h.selectDay(d1)
	st := h.ed.State()
	assert.Equal(t, "hello lost?", st.Content)
	assert.Equal(t, StatusFailed, st.Status)
	require.NotNil(t, sel.Alarm, "session owns the retry now")

	h.settle(h.fire(sel))
	assert.Equal(t, StatusSaved, h.ed.State().Status)
	assert.False(t, h.ed.Pending())
}

func TestDrainReissuesEverythingUnsaved(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	fx := h.fire(h.ed.UpdateContent("hello drained"))
	h.selectDay(d0)
	h.setFail(true)
	h.settle(fx)
	h.setFail(false)

	h.ed.UpdateContent("today, unsaved")
	drain := h.ed.Drain()
	require.Len(t, drain.Writes, 2)
	assert.Equal(t, d0, drain.Writes[0].Day)
	assert.Equal(t, d1, drain.Writes[1].Day)

	h.settle(drain)
	assert.False(t, h.ed.Pending())
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello drained", rec.Content)
	rec, _ = h.cache.Get(d0)
	assert.Equal(t, "today, unsaved", rec.Content)
	assert.Empty(t, h.ed.Drain().Writes)
}

func TestDrainReissuesInflightWrite(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)
	fx := h.fire(h.ed.UpdateContent("mid-flight"))
	require.Len(t, fx.Writes, 1)

	drain := h.ed.Drain()
	require.Len(t, drain.Writes, 1)
	assert.Greater(t, drain.Writes[0].Seq, fx.Writes[0].Seq)

	h.settle(drain)
	assert.Equal(t, StatusSaved, h.ed.State().Status)
	assert.False(t, h.ed.Pending())

	old := h.flush(fx.Writes[0])
	assert.True(t, old.Superseded)
	h.ed.Resolve(old)
	assert.Equal(t, StatusSaved, h.ed.State().Status)
}

func TestSelectUnhydratedDayIsRefused(t *testing.T) {
	h := newHarness(t)
	_, err := h.ed.SelectDay("2020-01-01")
	assert.ErrorIs(t, err, ErrNotHydrated)
	assert.False(t, h.ed.State().Selected)
}

func TestFlushWritesImmediately(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d0)
	armed := h.ed.UpdateContent("now")

	fx := h.ed.Flush()
	require.Len(t, fx.Writes, 1)
	assert.Empty(t, h.ed.Fire(armed.Alarm.Token).Writes)
	assert.True(t, h.ed.Flush().Empty(), "nothing left to flush while saving")
}

func TestUpdateWithoutSelectionIsIgnored(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.ed.UpdateContent("x").Empty())
	assert.True(t, h.ed.Flush().Empty())
}

// Any burst of keystrokes followed by a quiet period issues exactly one
// write carrying the final content.
func TestDebounceCoalescesBursts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const letters = "abcdefgh \n"

	for trial := 0; trial < 50; trial++ {
		t.Run(fmt.Sprintf("trial_%d", trial), func(t *testing.T) {
			h := newHarness(t)
			h.selectDay(d0)

			var alarms []Effects
			text := ""
			for n := 1 + rng.Intn(20); n > 0; n-- {
				text += string(letters[rng.Intn(len(letters))])
				fx := h.ed.UpdateContent(text)
				if fx.Alarm != nil {
					alarms = append(alarms, fx)
				}
			}
			require.NotEmpty(t, alarms)

			var writes []notes.Write
			for _, a := range alarms {
				writes = append(writes, h.ed.Fire(a.Alarm.Token).Writes...)
			}
			require.Len(t, writes, 1)
			assert.Equal(t, text, writes[0].Content)
		})
	}
}

func TestRevertAfterFailedSaveAbandonsWrite(t *testing.T) {
	h := newHarness(t)
	h.selectDay(d1)
	h.setFail(true)
	retry := h.settle(h.fire(h.ed.UpdateContent("hello X")))
	require.NotNil(t, retry.Alarm)
	h.setFail(false)

	assert.Empty(t, h.ed.UpdateContent("hello").Alarm)
	st := h.ed.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.NoError(t, st.LastErr)
	assert.False(t, h.ed.Pending(), "reverted text has nothing left to save")
	assert.Empty(t, h.ed.Fire(retry.Alarm.Token).Writes, "retry alarm is cancelled")
	assert.Empty(t, h.ed.Flush().Writes)

	assert.Empty(t, h.selectDay(d0).Writes)
	sel := h.selectDay(d1)
	assert.Nil(t, sel.Alarm)
	st = h.ed.State()
	assert.Equal(t, "hello", st.Content)
	assert.Equal(t, StatusIdle, st.Status)

	assert.Empty(t, h.ed.Drain().Writes)
	assert.Equal(t, 1, h.saveCount(), "only the failed attempt reached the backend")
	rec, _ := h.cache.Get(d1)
	assert.Equal(t, "hello", rec.Content)
}
