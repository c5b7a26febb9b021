//go:build linux

package headless

import (
	"fmt"
	"log"
	"time"
	"unsafe"

	gldriver "github.com/richinsley/goquad/gldriver"
	graphics "github.com/richinsley/goquad/graphics"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC query_devices_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platform_display_ptr = NULL;

static void load_egl_extensions() {
    query_devices_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    platform_display_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay platform_display(EGLenum platform, void *native_display) {
    if (platform_display_ptr) {
        return platform_display_ptr(platform, native_display, NULL);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (query_devices_ptr) {
        return query_devices_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// Headless is an offscreen EGL pbuffer context. It reports ShouldClose once
// its frame budget has been rendered.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width, height int
	frames        int
	rendered      int
	start         time.Time
}

var _ graphics.Context = (*Headless)(nil)

// eglDisplay prefers enumerating devices, which works without a display
// server, and falls back to the default display.
func eglDisplay() (C.EGLDisplay, error) {
	C.load_egl_extensions()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		log.Println("Warning: EGL_EXT_device_query not supported or no devices found. Falling back to EGL_DEFAULT_DISPLAY.")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return display, fmt.Errorf("eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}

	for i := 0; i < int(numDevices); i++ {
		display := C.platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]))
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Using EGL device %d of %d.", i, numDevices)
			return display, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("no EGL device produced a display")
}

// NewHeadless creates a width x height pbuffer with a GLES 3 context, makes
// it current and loads the GL function pointers. frames <= 0 means the
// context never asks to close.
func NewHeadless(width, height, frames int) (*Headless, error) {
	h := &Headless{
		width:   width,
		height:  height,
		frames:  frames,
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
	}

	var err error
	h.display, err = eglDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to get EGL display: %w", err)
	}

	var major, minor C.EGLint
	if C.eglInitialize(h.display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to initialize EGL")
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(h.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		h.Shutdown()
		return nil, fmt.Errorf("failed to choose EGL config")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &pbufferAttribs[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		h.Shutdown()
		return nil, fmt.Errorf("failed to create pbuffer surface")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, 3,
		C.EGL_NONE,
	}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		h.Shutdown()
		return nil, fmt.Errorf("failed to create EGL context")
	}

	h.MakeCurrent()
	if err := gldriver.Init(); err != nil {
		h.Shutdown()
		return nil, err
	}

	h.start = time.Now()
	return h, nil
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

func (h *Headless) Shutdown() {
	if h.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(h.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
	}
	if h.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(h.display, h.surface)
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

func (h *Headless) ShouldClose() bool {
	return h.frames > 0 && h.rendered >= h.frames
}

func (h *Headless) EndFrame() {
	C.eglSwapBuffers(h.display, h.surface)
	h.rendered++
}

func (h *Headless) GetFramebufferSize() (int, int) {
	return h.width, h.height
}

func (h *Headless) Time() float64 {
	return time.Since(h.start).Seconds()
}

func (h *Headless) IsGLES() bool {
	return true
}
