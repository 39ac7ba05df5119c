package suspend

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/wippyai/loom/errors"
)

func pollUntilDone(t *testing.T, h Handle) (any, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, ready, err := h.Poll(time.Now())
		if err != nil {
			return nil, err
		}
		if ready {
			return res, nil
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("background work did not finish")
	return nil, nil
}

func TestGo_Result(t *testing.T) {
	h := Go(func() (any, error) {
		return 42, nil
	})

	res, err := pollUntilDone(t, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.(int) != 42 {
		t.Errorf("result = %v, want 42", res)
	}
}

func TestGo_NotReadyWhileRunning(t *testing.T) {
	release := make(chan struct{})
	h := Go(func() (any, error) {
		<-release
		return nil, nil
	})

	if _, ready, err := h.Poll(time.Now()); ready || err != nil {
		t.Fatalf("poll while running: ready=%v err=%v", ready, err)
	}
	close(release)
	if _, err := pollUntilDone(t, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGo_ErrorIsFatal(t *testing.T) {
	h := Go(func() (any, error) {
		return nil, stderrors.New("fetch failed")
	})

	_, err := pollUntilDone(t, h)
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, errors.BackgroundFailed(nil)) {
		t.Errorf("error = %v, want background_failed", err)
	}
}

func TestGo_PanicIsFatal(t *testing.T) {
	h := Go(func() (any, error) {
		panic("worker exploded")
	})

	_, err := pollUntilDone(t, h)
	if err == nil {
		t.Fatal("expected error")
	}
	var lerr *errors.Error
	if !stderrors.As(err, &lerr) || lerr.Kind != errors.KindBackgroundFailed {
		t.Fatalf("error = %v, want background_failed", err)
	}
}
