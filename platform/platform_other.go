//go:build !linux

package platform

import "github.com/Swind/go-sched-launcher/core"

// CreateThread is unsupported outside Linux.
func (p *OS) CreateThread(attr *core.ThreadAttr, body func()) (core.Thread, error) {
	return nil, ErrUnsupported
}

// SetAffinity is unsupported outside Linux.
func (p *OS) SetAffinity(cpu int) error {
	return ErrUnsupported
}
