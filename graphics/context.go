package graphics

// Context defines the interface for an OpenGL context the renderer draws
// into. Every method must be called from the thread that owns the context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the back buffer and processes pending events.
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}
