package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Software sample clock, for when there is no sound
 *		card to pace the synthesizer, e.g. when Send audio
 *		goes to a file.
 *
 * Description:	Wakes up every period and calls the tick handler
 *		as many times as the elapsed time calls for, so the
 *		long term rate is exact even though individual
 *		wakeups are late.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"time"
)

type SampleClock struct {
	rate   int
	period time.Duration
	tick   func()
	now    func() time.Time
}

func NewSampleClock(rate int, period time.Duration, tick func()) *SampleClock {
	return &SampleClock{rate: rate, period: period, tick: tick, now: time.Now}
}

// Run ticks until ctx is done.  It returns the number of ticks delivered.
func (c *SampleClock) Run(ctx context.Context) int64 {
	var ticker = time.NewTicker(c.period)
	defer ticker.Stop()

	var start = c.now()
	var delivered int64

	for {
		select {
		case <-ctx.Done():
			return delivered
		case <-ticker.C:
		}

		delivered += c.catchUp(start, delivered)
	}
}

func (c *SampleClock) catchUp(start time.Time, delivered int64) int64 {
	var elapsed = c.now().Sub(start)
	var due = int64(elapsed/time.Second)*int64(c.rate) + int64(elapsed%time.Second)*int64(c.rate)/int64(time.Second)

	var n int64
	for ; delivered+n < due; n++ {
		c.tick()
	}

	return n
}
