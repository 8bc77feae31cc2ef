package crypto

import "runtime"

// Wipe overwrites b with zeros. It is best effort: copies made by the
// runtime or by callers are not reached.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
