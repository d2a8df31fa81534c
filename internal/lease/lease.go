// v0
// internal/lease/lease.go
package lease

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrHeld is returned when another live process already holds the lease.
var ErrHeld = errors.New("lease already held")

// Lease is the advisory singleton lock for the ingestion actor: at most one
// process may hold it; presence of the file signals "pipeline running".
type Lease struct {
	path string
}

// Acquire takes the lease for the current process. A lease file left behind
// by a dead process is treated as stale and replaced.
func Acquire(path string) (*Lease, error) {
	if pid, ok := holderPID(path); ok && pidAlive(pid) {
		return nil, fmt.Errorf("%w by pid %d", ErrHeld, pid)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("write lease %s: %w", path, err)
	}
	return &Lease{path: path}, nil
}

// Release removes the lease file. Best effort; teardown makes no stronger
// guarantee than that.
func (l *Lease) Release() {
	_ = os.Remove(l.path)
}

// Held reports whether a live process currently holds the lease at path.
func Held(path string) bool {
	pid, ok := holderPID(path)
	return ok && pidAlive(pid)
}

func holderPID(path string) (int, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func pidAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
