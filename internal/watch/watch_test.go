package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

func TestWatcherReanalyzesOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "resolution.txt")
	require.NoError(t, os.WriteFile(path, []byte("get fit"), 0o600))

	w, err := New(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	updates := make(chan Update, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(u Update) { updates <- u }) }()

	first := waitUpdate(t, updates)
	require.Equal(t, analyzer.VerdictDelusional, first.Result.Verdict)
	require.Equal(t, 28, first.Result.Score)

	require.NoError(t, os.WriteFile(path, []byte("Run 3x/week for 30 minutes"), 0o600))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case u := <-updates:
			if u.Result.Verdict == analyzer.VerdictAchievable {
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-deadline:
			cancel()
			<-done
			t.Fatal("no update after write")
		}
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "resolution.txt")
	require.NoError(t, os.WriteFile(path, []byte("swim daily"), 0o600))

	w, err := New(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	updates := make(chan Update, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(u Update) { updates <- u }) }()

	waitUpdate(t, updates)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("get fit"), 0o600))

	select {
	case u := <-updates:
		t.Fatalf("unexpected update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}
	cancel()
	require.NoError(t, <-done)
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "file.txt"), 0, nil)
	require.Error(t, err)
}

func waitUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}
