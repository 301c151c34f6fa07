package router

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

func discardLogger() *log.Logger { return log.New(io.Discard) }

func TestMaxSessionsMiddlewareReleasesSlotOnContextDone(t *testing.T) {
	mw := MaxSessionsMiddleware(1, discardLogger())

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := newFakeSession(blockCtx, "203.0.113.10")
	second := newFakeSession(context.Background(), "203.0.113.11")

	releaseHandler := make(chan struct{})
	started := make(chan struct{})
	handler := mw(func(ssh.Session) {
		close(started)
		<-releaseHandler
	})

	done := make(chan struct{})
	go func() {
		handler(first)
		close(done)
	}()
	<-started

	rejected := mw(func(ssh.Session) { t.Error("second session should be rejected") })
	rejected(second)
	if writes := second.written(); len(writes) != 1 || writes[0] != "max sessions exceeded\n" {
		t.Fatalf("unexpected overflow writes: %#v", writes)
	}
	if !second.exited || second.exitCode != 1 {
		t.Fatalf("rejected session should exit 1, got exited=%v code=%d", second.exited, second.exitCode)
	}

	cancel()
	third := newFakeSession(context.Background(), "203.0.113.12")
	deadline := time.Now().Add(2 * time.Second)
	for {
		called := false
		mw(func(ssh.Session) { called = true })(third)
		if called {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected slot to be available after context cancellation")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(releaseHandler)
	<-done
}

func TestMaxSessionsMiddlewareRecoversFromPanicAndReleasesSlot(t *testing.T) {
	mw := MaxSessionsMiddleware(1, discardLogger())
	panicSession := newFakeSession(context.Background(), "203.0.113.20")

	mw(func(ssh.Session) { panic("boom") })(panicSession)

	followUp := newFakeSession(context.Background(), "203.0.113.21")
	called := false
	mw(func(ssh.Session) { called = true })(followUp)
	if !called {
		t.Fatal("expected slot to be released after panic")
	}
}

func TestMaxSessionsMiddlewareContextDoneAndHandlerReturnDoNotDoubleRelease(t *testing.T) {
	mw := MaxSessionsMiddleware(1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := newFakeSession(ctx, "203.0.113.30")
	releaseFirst := make(chan struct{})
	h := mw(func(ssh.Session) { <-releaseFirst })
	doneFirst := make(chan struct{})
	go func() {
		h(first)
		close(doneFirst)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(releaseFirst)
	<-doneFirst

	second := newFakeSession(context.Background(), "203.0.113.31")
	third := newFakeSession(context.Background(), "203.0.113.32")
	releaseSecond := make(chan struct{})
	startedSecond := make(chan struct{})
	gate := mw(func(ssh.Session) {
		close(startedSecond)
		<-releaseSecond
	})
	doneSecond := make(chan struct{})
	go func() {
		gate(second)
		close(doneSecond)
	}()
	<-startedSecond

	mw(func(ssh.Session) { t.Error("third session should be rejected") })(third)
	if writes := third.written(); len(writes) != 1 || writes[0] != "max sessions exceeded\n" {
		t.Fatalf("unexpected overflow writes: %#v", writes)
	}

	close(releaseSecond)
	<-doneSecond
}

func TestMaxSessionsMiddlewareClampsLimit(t *testing.T) {
	mw := MaxSessionsMiddleware(0, discardLogger())
	called := false
	mw(func(ssh.Session) { called = true })(newFakeSession(context.Background(), "203.0.113.40"))
	if !called {
		t.Fatal("a non-positive limit should still admit one session")
	}
}
