package input

// Pipe is a Source the caller drives by hand. Replay tooling and tests
// construct one, hand it to the engine, and push events through Emit.
type Pipe struct {
	h Handler
}

// NewPipe returns an unattached pipe.
func NewPipe() *Pipe { return &Pipe{} }

// Attach implements Source.
func (p *Pipe) Attach(h Handler) (func(), error) {
	p.h = h
	return func() { p.h = nil }, nil
}

// Emit delivers one event to the attached handler synchronously.
// Events emitted while detached are dropped.
func (p *Pipe) Emit(ev Event) {
	if p.h != nil {
		p.h(ev)
	}
}
