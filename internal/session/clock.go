package session

// clock is a Lamport logical clock. Each locally issued operation ticks it;
// observing a remote operation advances it past the remote value so that
// subsequent local operations sort after everything already seen.
type clock struct {
	now uint64
}

// tick advances the clock and returns the new value.
func (c *clock) tick() uint64 {
	c.now++
	return c.now
}

// observe advances the clock to at least the given remote value.
func (c *clock) observe(remote uint64) {
	if remote > c.now {
		c.now = remote
	}
}
