//go:build !linux

package headless

import (
	"fmt"

	graphics "github.com/richinsley/goquad/graphics"
)

// NewHeadless is only available on linux.
func NewHeadless(width, height, frames int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
