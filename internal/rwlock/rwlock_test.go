package rwlock

import (
	"sync"
	"testing"
	"time"
)

func TestReadersConcurrent(t *testing.T) {
	l := New()

	var active int32
	var maxActive int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.ReadLock()
			defer l.ReadUnlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive < 2 {
		t.Errorf("expected multiple readers concurrently, max observed %d", maxActive)
	}
}

func TestWriterExcludesReaders(t *testing.T) {
	l := New()

	tok := l.WriteLock()

	readerStarted := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		close(readerStarted)
		l.ReadLock()
		close(readerDone)
		l.ReadUnlock()
	}()

	<-readerStarted
	select {
	case <-readerDone:
		t.Fatal("reader acquired lock while writer held it")
	case <-time.After(30 * time.Millisecond):
	}

	if err := l.WriteUnlock(tok); err != nil {
		t.Fatalf("write unlock: %v", err)
	}

	select {
	case <-readerDone:
	case <-time.After(time.Second):
		t.Fatal("reader never acquired lock after writer released")
	}
}

func TestWriteUnlockWrongTokenFails(t *testing.T) {
	l := New()
	tok := l.WriteLock()
	defer l.WriteUnlock(tok)

	err := l.WriteUnlock(tok + 1)
	if err == nil {
		t.Fatal("expected LockOwnershipError for mismatched token")
	}
	var lockErr *LockOwnershipError
	if _, ok := err.(*LockOwnershipError); !ok {
		t.Fatalf("expected *LockOwnershipError, got %T", err)
	}
	_ = lockErr
}

func TestWriteUnlockWhenNotWritingFails(t *testing.T) {
	l := New()
	if err := l.WriteUnlock(1); err == nil {
		t.Fatal("expected error unlocking a lock that was never write-locked")
	}
}

func TestWritersAreExclusive(t *testing.T) {
	l := New()

	var active int32
	var maxActive int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := l.WriteLock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()

			if err := l.WriteUnlock(tok); err != nil {
				t.Errorf("write unlock: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("expected at most 1 concurrent writer, observed %d", maxActive)
	}
}
