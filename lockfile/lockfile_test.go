package lockfile

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLock_ExclusiveThenShared(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	l := New(path, WithReadTimeout(time.Second), WithWriteTimeout(time.Second))

	handle, err := l.AcquireExclusive()
	require.NoError(t, err)
	_, err = handle.file.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, handle.Close())

	_, statErr := os.Stat(path + ".lock")
	require.True(t, os.IsNotExist(statErr))

	readHandle, err := l.AcquireShared()
	require.NoError(t, err)
	require.NoError(t, readHandle.Close())
}

// TestLock_ConcurrentExclusiveMutualExclusion races several goroutines for
// the same exclusive lock and records how many are ever inside the critical
// section at once: if AcquireExclusive ever let two holders overlap, the
// shared counter would be observed above 1.
func TestLock_ConcurrentExclusiveMutualExclusion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	const racers = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	inside := 0
	maxObserved := 0
	acquired := 0

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			l := New(path, WithWriteTimeout(2*time.Second))
			handle, err := l.AcquireExclusive()
			if err != nil {
				return
			}

			mu.Lock()
			inside++
			acquired++
			if inside > maxObserved {
				maxObserved = inside
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()

			require.NoError(t, handle.Close())
		}()
	}

	wg.Wait()

	require.Equal(t, racers, acquired, "every racer should eventually acquire the lock")
	require.Equal(t, 1, maxObserved, "no two racers should hold the exclusive lock at once")
}

func TestLock_SharedTimesOutWhileSentinelExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path+".lock", []byte("owner"), 0o644))

	l := New(path, WithReadTimeout(150*time.Millisecond))
	_, err := l.AcquireShared()
	require.Error(t, err)
}
