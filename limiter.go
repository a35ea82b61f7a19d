package gallerydesk

import (
	"sync"
	"time"
)

// failures is one IP's run of failed logins. The run starts at the first
// failure and lapses a lockout window later.
type failures struct {
	count int
	since time.Time
}

// FailedLogins locks an IP out of login once it has failed limit times
// within a lockout window. A successful login clears the IP's record.
type FailedLogins struct {
	mu      sync.Mutex
	byIP    map[string]failures
	limit   int
	lockout time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewFailedLogins creates a tracker allowing limit failures per lockout
// window and starts its sweeper.
func NewFailedLogins(limit int, lockout time.Duration) *FailedLogins {
	f := &FailedLogins{
		byIP:    make(map[string]failures),
		limit:   limit,
		lockout: lockout,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go f.sweep()
	return f
}

func (f *FailedLogins) sweep() {
	ticker := time.NewTicker(f.lockout)
	defer ticker.Stop()
	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
		}
		f.mu.Lock()
		for ip := range f.byIP {
			f.current(ip)
		}
		f.mu.Unlock()
	}
}

// current returns the live record of ip, dropping a lapsed one.
// The caller holds mu.
func (f *FailedLogins) current(ip string) failures {
	r, ok := f.byIP[ip]
	if ok && f.now().Sub(r.since) >= f.lockout {
		delete(f.byIP, ip)
		return failures{}
	}
	return r
}

// Locked reports whether ip has used up its failures.
func (f *FailedLogins) Locked(ip string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current(ip).count >= f.limit
}

// Fail counts a rejected login from ip and returns how many attempts it
// has left before the lockout.
func (f *FailedLogins) Fail(ip string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.current(ip)
	if r.count == 0 {
		r.since = f.now()
	}
	r.count++
	f.byIP[ip] = r
	return max(f.limit-r.count, 0)
}

// Clear forgets the failures of ip.
func (f *FailedLogins) Clear(ip string) {
	f.mu.Lock()
	delete(f.byIP, ip)
	f.mu.Unlock()
}

// Stop ends the sweeper. It is safe to call more than once.
func (f *FailedLogins) Stop() {
	f.stopOnce.Do(func() { close(f.done) })
}
