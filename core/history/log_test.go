package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_order(t *testing.T) {
	l := NewLog()
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, l.Append(fmt.Sprintf("cmd %d", i)))
	}

	assert.Equal(t, 5, l.Len())
	assert.Equal(t, []string{"cmd 0", "cmd 1", "cmd 2", "cmd 3", "cmd 4"}, l.Entries())
}

func TestLog_entriesAreCopies(t *testing.T) {
	l := NewLog()
	l.Append("ls")

	entries := l.Entries()
	entries[0] = "rm -rf"

	assert.Equal(t, []string{"ls"}, l.Entries())
}

func TestLog_concurrentAppend(t *testing.T) {
	l := NewLog()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(fmt.Sprintf("%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, l.Len())
}

func TestLog_String(t *testing.T) {
	l := NewLog()
	l.Append("pwd")
	l.Append("ls | grep go")

	assert.Equal(t, "    0  pwd\n    1  ls | grep go\n", l.String())
}
