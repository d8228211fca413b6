package payment

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func startListener(t *testing.T) *CallbackListener {
	t.Helper()
	l := NewCallbackListener()
	if err := l.Start("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Shutdown() })
	return l
}

func TestCallbackListener_CapturesReference(t *testing.T) {
	l := startListener(t)

	res, err := http.Get(l.URL() + "?reference=ref-cb-1")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ref, err := l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "ref-cb-1" {
		t.Errorf("expected ref-cb-1, got %q", ref)
	}
}

func TestCallbackListener_AcceptsTrxref(t *testing.T) {
	l := startListener(t)

	res, err := http.Get(l.URL() + "?trxref=ref-cb-2")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ref, err := l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "ref-cb-2" {
		t.Errorf("expected ref-cb-2, got %q", ref)
	}
}

func TestCallbackListener_MissingReferenceIsRejected(t *testing.T) {
	l := startListener(t)

	res, err := http.Get(l.URL())
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := l.Wait(ctx); err == nil {
		t.Error("no reference should have been captured")
	}
}
