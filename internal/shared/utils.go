// Package shared holds small helpers used by the CLI.
package shared

// WipeByteArray overwrites b with zeros. Use it on passwords once they have
// been sent. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
