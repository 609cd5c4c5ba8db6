//go:build unix

package transition

import (
	"errors"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"golang.org/x/sys/unix"
)

func TestLock_RefusesNamedPipe(t *testing.T) {
	fsys, dir := newOSFS(t)
	pipe := join(dir, "pipe")
	if err := unix.Mkfifo(pipe, 0600); err != nil {
		t.Skipf("mkfifo not supported: %v", err)
	}

	tr := &Transitioner{FS: fsys, Key: mustKey(t, "secret"), Policy: DefaultPolicy()}

	done := make(chan error, 1)
	go func() {
		_, err := tr.Lock(pipe)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, kerrors.ErrRead) {
			t.Errorf("expected ErrRead, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Lock blocked on a named pipe")
	}

	if exists(fsys, pipe+".locked") {
		t.Errorf("destination was written for a named pipe")
	}
	if !exists(fsys, pipe) {
		t.Errorf("named pipe was removed")
	}
}
