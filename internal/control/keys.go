package control

// KeySource is a polled keyboard. PressedKey drains the queue of keys
// pressed since the last poll and returns 0 when it is empty.
type KeySource interface {
	PressedKey() int32
	IsKeyUp(key int32) bool
}

// KeyTracker turns polled key state into press and release events on a
// Sign. Any key counts; a press followed by a release within one poll ends
// released.
type KeyTracker struct {
	held map[int32]struct{}
}

func NewKeyTracker() *KeyTracker {
	return &KeyTracker{held: make(map[int32]struct{})}
}

func (k *KeyTracker) Poll(src KeySource, sign *Sign) {
	for key := src.PressedKey(); key != 0; key = src.PressedKey() {
		k.held[key] = struct{}{}
		sign.Press()
	}
	for key := range k.held {
		if src.IsKeyUp(key) {
			delete(k.held, key)
			sign.Release()
		}
	}
}

func (k *KeyTracker) Held() int { return len(k.held) }
