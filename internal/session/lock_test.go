package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockerSerialisesPerID(t *testing.T) {
	l := NewLocker()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("s1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.len())
}

func TestLockerIndependentIDs(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")
	unlockB := l.Lock("b")
	assert.Equal(t, 2, l.len())
	unlockA()
	unlockB()
	assert.Equal(t, 0, l.len())
}
