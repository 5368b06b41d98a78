package state

import (
	"sync"
	"time"
)

// Default auto-expiry for the two message kinds. Errors linger longer so the
// user has time to read them.
const (
	ErrorToastTimeout = 6 * time.Second
	InfoToastTimeout  = 4 * time.Second
)

// Messages is the sink the synchronizers report through.
type Messages interface {
	Error(msg string)
	Info(msg string)
	Clear()
}

// Toasts holds at most one current error message and one current info
// message, each with its own auto-expiry timer. Setting a new message of a
// kind resets that kind's timer; Clear drops both immediately.
type Toasts struct {
	mu      sync.Mutex
	errTTL  time.Duration
	infoTTL time.Duration

	errorMsg string
	infoMsg  string

	// Generation counters invalidate expiry timers scheduled for messages
	// that have since been replaced or cleared.
	errGen  int
	infoGen int
}

// NewToasts builds a toast channel. Non-positive timeouts fall back to the
// package defaults.
func NewToasts(errTTL, infoTTL time.Duration) *Toasts {
	if errTTL <= 0 {
		errTTL = ErrorToastTimeout
	}
	if infoTTL <= 0 {
		infoTTL = InfoToastTimeout
	}
	return &Toasts{errTTL: errTTL, infoTTL: infoTTL}
}

func (t *Toasts) Error(msg string) {
	t.mu.Lock()
	t.errorMsg = msg
	t.errGen++
	gen := t.errGen
	t.mu.Unlock()

	if msg == "" {
		return
	}
	time.AfterFunc(t.errTTL, func() {
		t.mu.Lock()
		if t.errGen == gen {
			t.errorMsg = ""
		}
		t.mu.Unlock()
	})
}

func (t *Toasts) Info(msg string) {
	t.mu.Lock()
	t.infoMsg = msg
	t.infoGen++
	gen := t.infoGen
	t.mu.Unlock()

	if msg == "" {
		return
	}
	time.AfterFunc(t.infoTTL, func() {
		t.mu.Lock()
		if t.infoGen == gen {
			t.infoMsg = ""
		}
		t.mu.Unlock()
	})
}

func (t *Toasts) Clear() {
	t.mu.Lock()
	t.errorMsg = ""
	t.infoMsg = ""
	t.errGen++
	t.infoGen++
	t.mu.Unlock()
}

func (t *Toasts) ErrorMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorMsg
}

func (t *Toasts) InfoMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.infoMsg
}
