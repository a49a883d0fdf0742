// Package session generates the opaque short identifiers used to correlate
// an executor client's warm/bootstrap/build/clean calls for one template
// execution.
package session

import (
	"crypto/rand"
)

const (
	idLength = 10
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator mints opaque session identifiers. It is a plain function type,
// not an interface, per the composition operator's preference for capability
// records over polymorphic hierarchies.
type Generator func() (string, error)

// NewID is the default Generator: 10 alphanumeric characters drawn from a
// cryptographically random source.
func NewID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, idLength)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
