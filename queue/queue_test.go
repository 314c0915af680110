package queue

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/NVIDIA/aistore/cmn"
)

func openTestQueue(t *testing.T) *BuntQueue {
	t.Helper()
	q, err := Open(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func TestEnqueuePullAck(t *testing.T) {
	q := openTestQueue(t)
	want := &Task{Color: "yellow", Year: 2016, Month: 1, Start: 0, End: 100, TimeoutSeconds: 60}
	if err := q.Enqueue(want); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	got, err := q.Pull(true, time.Second)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if got.Color != want.Color || got.Start != want.Start || got.End != want.End {
		t.Errorf("Pull returned %+v, want fields matching %+v", got, want)
	}

	if err := q.Ack(got); err != nil {
		t.Fatalf("Ack: %v", err)
	}

	if _, err := q.Pull(false, 100*time.Millisecond); !cmn.IsErrQueueEmpty(err) {
		t.Errorf("Pull after Ack = %v, want ErrQueueEmpty", err)
	}
}

func TestPullLeasesAgainstConcurrentPull(t *testing.T) {
	q := openTestQueue(t)
	if err := q.Enqueue(&Task{Color: "green", Year: 2015, Month: 6, Start: 0, End: 10, TimeoutSeconds: 60}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	first, err := q.Pull(true, time.Second)
	if err != nil {
		t.Fatalf("first Pull: %v", err)
	}

	// The task is leased; a second Pull must not see it again until Ack or
	// lease expiry.
	if _, err := q.Pull(false, 100*time.Millisecond); !cmn.IsErrQueueEmpty(err) {
		t.Errorf("second Pull = %v, want ErrQueueEmpty while lease is live", err)
	}

	if err := q.Ack(first); err != nil {
		t.Fatalf("Ack: %v", err)
	}
}

func TestRedeliveryAfterLeaseExpiry(t *testing.T) {
	q := openTestQueue(t)
	if err := q.Enqueue(&Task{Color: "yellow", Year: 2016, Month: 1, Start: 0, End: 10, TimeoutSeconds: 1}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	t1, err := q.Pull(true, time.Second)
	if err != nil {
		t.Fatalf("first Pull: %v", err)
	}

	time.Sleep(1200 * time.Millisecond)

	t2, err := q.Pull(true, 2*time.Second)
	if err != nil {
		t.Fatalf("Pull after lease expiry: %v", err)
	}
	if t2.Start != t1.Start || t2.End != t1.End {
		t.Errorf("redelivered task %+v does not match original %+v", t2, t1)
	}
	if err := q.Ack(t2); err != nil {
		t.Fatalf("Ack: %v", err)
	}
}
