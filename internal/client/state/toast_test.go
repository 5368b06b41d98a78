package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToasts_DefaultsOnNonPositiveTTL(t *testing.T) {
	tt := NewToasts(0, -1)
	require.Equal(t, ErrorToastTimeout, tt.errTTL)
	require.Equal(t, InfoToastTimeout, tt.infoTTL)
}

func TestToasts_ErrorAndInfoAreIndependent(t *testing.T) {
	tt := NewToasts(time.Minute, time.Minute)

	tt.Error("boom")
	tt.Info("saved")
	require.Equal(t, "boom", tt.ErrorMessage())
	require.Equal(t, "saved", tt.InfoMessage())

	tt.Error("worse")
	require.Equal(t, "worse", tt.ErrorMessage())
	require.Equal(t, "saved", tt.InfoMessage())
}

func TestToasts_ClearDropsBoth(t *testing.T) {
	tt := NewToasts(time.Minute, time.Minute)
	tt.Error("boom")
	tt.Info("saved")

	tt.Clear()
	require.Empty(t, tt.ErrorMessage())
	require.Empty(t, tt.InfoMessage())
}

func TestToasts_MessagesExpire(t *testing.T) {
	tt := NewToasts(10*time.Millisecond, 10*time.Millisecond)
	tt.Error("boom")
	tt.Info("saved")

	require.Eventually(t, func() bool {
		return tt.ErrorMessage() == "" && tt.InfoMessage() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestToasts_ReplacedMessageNotClearedByOldTimer(t *testing.T) {
	tt := NewToasts(10*time.Millisecond, time.Minute)
	tt.Error("first")
	tt.Error("second")

	// The first message's timer fires but must not clear the replacement
	// prematurely; only the second message's own timer may.
	time.Sleep(5 * time.Millisecond)
	tt.Error("third")
	time.Sleep(7 * time.Millisecond)
	require.Equal(t, "third", tt.ErrorMessage())
}
