package serialport

import (
	"io"
	"net"
	"testing"
)

// newTestReader creates a Reader backed by the local end of net.Pipe().
// Returns the reader and the remote end for device simulation.
func newTestReader(t *testing.T) (*Reader, net.Conn) {
	t.Helper()

	local, remote := net.Pipe()
	t.Cleanup(func() {
		_ = local.Close()
		_ = remote.Close()
	})

	return NewReader(local), remote
}

// mustWrite writes data to w, failing the test on error.
func mustWrite(t *testing.T, w io.Writer, data []byte) {
	t.Helper()

	_, err := w.Write(data)
	if err != nil {
		t.Errorf("mustWrite: %v", err)
	}
}

// writeAsync writes data to w from a goroutine and returns a channel closed
// once the write was fully consumed.
func writeAsync(t *testing.T, w io.Writer, data []byte) <-chan struct{} {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		mustWrite(t, w, data)
	}()

	return done
}
