package browser

import (
	"fmt"
	"sync"
)

// portPool hands out chromedriver ports so concurrent selenium
// sessions never collide on the same WebDriver endpoint.
type portPool struct {
	base  int
	size  int
	inUse map[int]bool
	mu    sync.Mutex
}

var (
	sharedPool *portPool
	poolOnce   sync.Once
)

func driverPorts() *portPool {
	poolOnce.Do(func() {
		sharedPool = &portPool{base: 4444, size: 16, inUse: make(map[int]bool)}
	})
	return sharedPool
}

func (p *portPool) acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.size; i++ {
		port := p.base + i
		if !p.inUse[port] {
			p.inUse[port] = true
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available chromedriver ports in range %d-%d", p.base, p.base+p.size-1)
}

func (p *portPool) release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inUse, port)
}
