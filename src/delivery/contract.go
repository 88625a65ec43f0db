package delivery

import (
	"github.com/Blackdeer1524/hashkit/src/rand"
)

type Generator interface {
	Uint64() uint64
	Fill(p []byte)
	Read(p []byte) (int, error)
	Feed(buf []byte)
	Reseed()
	Stats() rand.Stats
}

var _ Generator = &rand.Generator{}
