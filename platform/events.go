package platform

// Event is one translated windowing event. The concrete types below are
// the complete set; the event loop switches over them.
type Event interface{ isEvent() }

// ResizeEvent reports a new drawable size in physical pixels together
// with the current display scale.
type ResizeEvent struct {
	WidthPx  uint32
	HeightPx uint32
	Scale    float32
}

// RedrawEvent asks for the window contents to be drawn again.
type RedrawEvent struct{}

// CloseEvent reports that the user asked to close the window.
type CloseEvent struct{}

// CursorEvent reports the pointer position in logical points.
type CursorEvent struct {
	X, Y float32
}

// ButtonEvent reports a pointer button press or release at the last
// known pointer position.
type ButtonEvent struct {
	Button  Button
	Pressed bool
	X, Y    float32
}

// ScrollEvent reports scroll-wheel motion in logical points.
type ScrollEvent struct {
	DX, DY float32
}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// FocusEvent reports the window gaining or losing input focus.
type FocusEvent struct {
	Focused bool
}

func (ResizeEvent) isEvent() {}
func (RedrawEvent) isEvent() {}
func (CloseEvent) isEvent()  {}
func (CursorEvent) isEvent() {}
func (ButtonEvent) isEvent() {}
func (ScrollEvent) isEvent() {}
func (KeyEvent) isEvent()    {}
func (FocusEvent) isEvent()  {}
