package rand

import (
	"github.com/stretchr/testify/mock"
)

type MockEntropySource struct {
	mock.Mock
}

func (m *MockEntropySource) Now() (int64, int64) {
	args := m.Called()
	return args.Get(0).(int64), args.Get(1).(int64)
}

func (m *MockEntropySource) Usage() ([]byte, bool) {
	args := m.Called()
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1)
}

// stepClock advances 100ns per read and counts calls.
type stepClock struct {
	sec    int64
	reads  int64
	usage  []byte
	usages int
}

func newStepClock(usage []byte) *stepClock {
	return &stepClock{sec: 5, usage: usage}
}

func (c *stepClock) Now() (int64, int64) {
	c.reads++
	return c.sec, 100 * c.reads
}

func (c *stepClock) Usage() ([]byte, bool) {
	c.usages++
	return c.usage, c.usage != nil
}
