// Package glerror reports OpenGL error state around individual GL calls.
package glerror

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
)

// NoError is the value glGetError returns once the error queue is empty.
const NoError uint32 = 0

// maxDrain bounds every drain loop. A context that is lost or was never made
// current can keep returning the same code forever.
const maxDrain = 64

var names = map[uint32]string{
	0x0500: "GL_INVALID_ENUM",
	0x0501: "GL_INVALID_VALUE",
	0x0502: "GL_INVALID_OPERATION",
	0x0503: "GL_STACK_OVERFLOW",
	0x0504: "GL_STACK_UNDERFLOW",
	0x0505: "GL_OUT_OF_MEMORY",
	0x0506: "GL_INVALID_FRAMEBUFFER_OPERATION",
	0x0507: "GL_CONTEXT_LOST",
}

// Name returns the symbolic name of an OpenGL error code.
func Name(code uint32) string {
	if n, ok := names[code]; ok {
		return n
	}
	return fmt.Sprintf("GL_ERROR_0x%04X", code)
}

// Error is a single OpenGL error code together with the call that raised it.
type Error struct {
	Code uint32
	Call string
	File string
	Line int
}

func (e *Error) Error() string {
	return fmt.Sprintf("[OpenGL Error:] %d (%s) from %s at %s:%d", e.Code, Name(e.Code), e.Call, e.File, e.Line)
}

// Policy decides what a failed check does after reporting.
type Policy int

const (
	// Report returns the error to the caller.
	Report Policy = iota
	// Halt panics with the error.
	Halt
)

// Probe drains and reports the error queue of the current GL context.
type Probe struct {
	source func() uint32
	policy Policy
	logger *log.Logger
}

// Option configures a Probe.
type Option func(*Probe)

// WithPolicy sets the failure policy. The default is Report.
func WithPolicy(p Policy) Option {
	return func(pr *Probe) { pr.policy = p }
}

// WithLogger sets the logger error reports are written to. The default
// writes unprefixed lines to stdout.
func WithLogger(l *log.Logger) Option {
	return func(pr *Probe) { pr.logger = l }
}

// New returns a Probe reading codes from source, normally gl.GetError.
func New(source func() uint32, opts ...Option) *Probe {
	p := &Probe{
		source: source,
		policy: Report,
		logger: log.New(os.Stdout, "", 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Clear discards any errors left over from earlier calls and returns how
// many were dropped.
func (p *Probe) Clear() int {
	n := 0
	for n < maxDrain && p.source() != NoError {
		n++
	}
	return n
}

// Check drains every pending error, logs each one against file and line,
// and returns them joined. It returns nil when the queue was empty.
func (p *Probe) Check(call, file string, line int) error {
	var errs []error
	for i := 0; i < maxDrain; i++ {
		code := p.source()
		if code == NoError {
			break
		}
		p.logger.Printf("[OpenGL Error:] %d", code)
		p.logger.Printf("In file: %s, line no: %d", file, line)
		errs = append(errs, &Error{Code: code, Call: call, File: file, Line: line})
	}
	if len(errs) == 0 {
		return nil
	}

	err := errors.Join(errs...)
	if p.policy == Halt {
		panic(err)
	}
	return err
}

// Call runs fn between a Clear and a Check, attributing any error to name
// and to the caller's source position.
func (p *Probe) Call(name string, fn func()) error {
	file, line := Site(1)
	return p.CallAt(name, file, line, fn)
}

// CallAt is Call with an explicit source position, for callers that queue
// GL calls and run them later.
func (p *Probe) CallAt(name, file string, line int, fn func()) error {
	p.Clear()
	fn()
	return p.Check(name, file, line)
}

// Site returns the source position skip frames above its caller.
func Site(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", 0
	}
	return file, line
}

// Codes extracts the GL error codes carried by err, in order.
func Codes(err error) []uint32 {
	var codes []uint32
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ge, ok := e.(*Error); ok {
			codes = append(codes, ge.Code)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return codes
}
