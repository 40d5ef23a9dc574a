package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/studyloop/lessonstore/internal/storage"
)

// Provider is a storage.Provider double. It counts Open calls and can
// inject an open failure or delay.
type Provider struct {
	Backend storage.Backend // backend returned on success
	Err     error           // when set, every Open fails with this error
	Delay   time.Duration   // sleep before returning, to widen init races

	opens atomic.Int32
}

// Open implements storage.Provider.
func (p *Provider) Open(ctx context.Context) (storage.Backend, error) {
	p.opens.Add(1)
	if p.Delay > 0 {
		time.Sleep(p.Delay)
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Backend, nil
}

// Opens returns how many times Open has been called.
func (p *Provider) Opens() int {
	return int(p.opens.Load())
}
