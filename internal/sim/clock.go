package sim

// Clock is the cooperative simulation clock, in seconds since the epoch.
type Clock struct {
	now int64
}

func (c *Clock) Now() int64 {
	return c.now
}

// Advance moves the clock forward by d seconds.
func (c *Clock) Advance(d int64) {
	c.now += d
}
