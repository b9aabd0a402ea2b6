package mapreduce

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Settings configures an Executor.
type Settings struct {
	// Workers is the number of chunks (and therefore goroutines) per run.
	Workers int
	// Timeout bounds the collection phase. Zero disables it.
	Timeout time.Duration
	Policy  Policy
	Logger  *zap.Logger
	Metrics *Metrics
	// OnStateChange is called on every state transition of every run.
	OnStateChange StateHook
}

// DefaultSettings returns one worker per usable CPU, no timeout and FailFast.
func DefaultSettings() Settings {
	return Settings{
		Workers: runtime.GOMAXPROCS(0),
		Policy:  FailFast,
		Logger:  zap.NewNop(),
	}
}

// Option is a functional option for configuring an Executor
type Option func(*Settings)

// WithWorkers sets the number of workers per run
func WithWorkers(n int) Option {
	return func(s *Settings) {
		s.Workers = n
	}
}

// WithTimeout bounds how long a run waits for results
func WithTimeout(d time.Duration) Option {
	return func(s *Settings) {
		s.Timeout = d
	}
}

// WithPolicy sets the failure policy
func WithPolicy(p Policy) Option {
	return func(s *Settings) {
		s.Policy = p
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l == nil {
			l = zap.NewNop()
		}
		s.Logger = l
	}
}

// WithMetrics records run and worker metrics in m
func WithMetrics(m *Metrics) Option {
	return func(s *Settings) {
		s.Metrics = m
	}
}

// WithStateHook registers a callback for state transitions
func WithStateHook(hook StateHook) Option {
	return func(s *Settings) {
		s.OnStateChange = hook
	}
}

func (s Settings) validate() error {
	if s.Workers <= 0 {
		return invalidConfig("worker count must be positive, got %d", s.Workers)
	}
	if s.Timeout < 0 {
		return invalidConfig("timeout must not be negative, got %s", s.Timeout)
	}
	if s.Policy != FailFast && s.Policy != CollectAll {
		return invalidConfig("unknown policy %d", int(s.Policy))
	}
	return nil
}
