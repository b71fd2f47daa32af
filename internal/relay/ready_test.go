package relay

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReadyTracksSentinel(t *testing.T) {
	dir := t.TempDir()

	if Ready(dir) {
		t.Fatal("Ready() = true before sentinel written")
	}
	if err := WriteReady(dir); err != nil {
		t.Fatalf("WriteReady() error = %v", err)
	}
	if !Ready(dir) {
		t.Fatal("Ready() = false after sentinel written")
	}
	if err := ClearReady(dir); err != nil {
		t.Fatalf("ClearReady() error = %v", err)
	}
	if Ready(dir) {
		t.Fatal("Ready() = true after sentinel cleared")
	}
}

func TestClearReadyMissingSentinel(t *testing.T) {
	if err := ClearReady(t.TempDir()); err != nil {
		t.Fatalf("ClearReady() on empty dir error = %v", err)
	}
}

func TestWaitReadySeesLateSentinel(t *testing.T) {
	dir := t.TempDir()

	go func() {
		time.Sleep(30 * time.Millisecond)
		WriteReady(dir)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := WaitReady(ctx, dir, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
}

func TestWaitReadyTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := WaitReady(ctx, t.TempDir(), 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitReady() error = %v, want deadline exceeded", err)
	}
}
