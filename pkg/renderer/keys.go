package renderer

// Key identifies a camera-control key independently of the windowing layer
type Key int

const (
	KeyA Key = iota
	KeyD
	KeyW
	KeyS
	KeyR
	KeyF
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// KeySet holds the keys currently pressed this frame
type KeySet map[Key]bool
