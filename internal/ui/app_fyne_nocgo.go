//go:build fyne && !cgo

package ui

import "fmt"

// Run is compiled when the build uses -tags fyne but cgo is disabled.
func Run(_ string) error {
	return fmt.Errorf("Fyne UI requires cgo (OpenGL). Enable cgo and install a C toolchain, then run: CGO_ENABLED=1 go run -tags fyne ./cmd/drawsurface ui [script.yaml]")
}
