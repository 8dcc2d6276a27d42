package app

import (
	"github.com/teslashibe/go-vtuber/pkg/pipeline"
	"gocv.io/x/gocv"
)

// keyWait is how long each frame waits for a key press, in milliseconds.
const keyWait = 5

// Display presents output frames.
type Display interface {
	Show(img gocv.Mat)
	Close() error
}

// Window is a Display backed by an OpenCV window. Its key presses are a
// command source; polling it also pumps the window's event loop.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named window.
func NewWindow(name string) *Window {
	return &Window{win: gocv.NewWindow(name)}
}

// Show draws img.
func (w *Window) Show(img gocv.Mat) {
	w.win.IMShow(img)
}

// Poll waits briefly for a key and maps it to a command.
func (w *Window) Poll() pipeline.Command {
	return pipeline.KeyCommand(w.win.WaitKey(keyWait))
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
