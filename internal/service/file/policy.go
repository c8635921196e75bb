package file

import (
	"time"

	"github.com/jpillora/backoff"
)

const DefaultPollInterval = 10 * time.Second

// PollPolicy controls the wait between two status polls of a remote file.
// Factor <= 1 gives a fixed interval. Timeout 0 waits without limit.
type PollPolicy struct {
	Interval    time.Duration `mapstructure:"poll_interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
	Factor      float64       `mapstructure:"backoff_factor"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func FixedInterval(d time.Duration) PollPolicy {
	return PollPolicy{Interval: d, MaxInterval: d, Factor: 1}
}

func DefaultPolicy() PollPolicy {
	return FixedInterval(DefaultPollInterval)
}

func (p PollPolicy) backoff() *backoff.Backoff {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxInterval := p.MaxInterval
	if maxInterval < interval {
		maxInterval = interval
	}
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	return &backoff.Backoff{
		Min:    interval,
		Max:    maxInterval,
		Factor: factor,
	}
}
