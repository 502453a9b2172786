package core

// =============================================================================
// Platform: thread creation and placement capabilities
// =============================================================================

// Platform creates scheduling-controlled threads and pins them to CPUs.
// The launcher and workers depend only on this interface, so they can run
// against the real kernel (package platform) or an in-memory fake.
type Platform interface {
	// CreateThread starts body on a new dedicated thread configured from attr.
	// It returns once the thread exists with attr applied, or with the error
	// that prevented it; body does not run when an error is returned.
	// attr is only read during the call and may be destroyed afterwards.
	CreateThread(attr *ThreadAttr, body func()) (Thread, error)

	// SetAffinity restricts the calling thread to cpu.
	// It must be called from a thread created by CreateThread.
	SetAffinity(cpu int) error
}

// Thread is a handle to a thread created by a Platform.
type Thread interface {
	// ID returns the platform thread ID.
	ID() int

	// Join blocks until the thread body returns. A second Join fails with ErrAlreadyJoined.
	Join() error
}
