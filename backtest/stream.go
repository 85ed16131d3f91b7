package backtest

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rustyeddy/signals/market"
	"github.com/rustyeddy/signals/signal"
)

// Stream is the pull side of the engine: every Next call consumes one tick
// and returns the Signal derived from it.
type Stream struct {
	feed   QuoteFeed
	engine *signal.Engine
	last   *signal.Signal
}

func NewStream(feed QuoteFeed, engine *signal.Engine) *Stream {
	return &Stream{feed: feed, engine: engine}
}

// Next returns ok=false once the feed is drained. An error concerns the one
// tick just consumed: the stream keeps the previous Signal and can go on.
// Feed errors are returned as they are.
func (s *Stream) Next() (signal.Signal, bool, error) {
	t, ok, err := s.feed.Next()
	if err != nil {
		return signal.Signal{}, true, err
	}
	if !ok {
		return signal.Signal{}, false, nil
	}
	next, err := s.engine.Update(s.last, t.Quote, t.Aux)
	if err != nil {
		return signal.Signal{}, true, err
	}
	s.last = &next
	return next, true, nil
}

// Last is the latest Signal, if any.
func (s *Stream) Last() (signal.Signal, bool) {
	if s.last == nil {
		return signal.Signal{}, false
	}
	return *s.last, true
}

func (s *Stream) Close() error { return s.feed.Close() }

// Recoverable reports whether err only concerns a single tick: an out of
// order timestamp or a rejected strategy result.
func Recoverable(err error) bool {
	var rej *signal.RejectionError
	return errors.Is(err, market.ErrNonMonotonicTimestamp) || errors.As(err, &rej)
}

// PushSource produces ticks by calling emit until it runs out, ctx is done,
// or emit fails.
type PushSource interface {
	Run(ctx context.Context, emit func(Tick) error) error
}

// PushFunc adapts a function to PushSource.
type PushFunc func(ctx context.Context, emit func(Tick) error) error

func (f PushFunc) Run(ctx context.Context, emit func(Tick) error) error { return f(ctx, emit) }

// FeedSource pushes the ticks of a pull feed.
func FeedSource(feed QuoteFeed) PushSource {
	return PushFunc(func(ctx context.Context, emit func(Tick) error) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, ok, err := feed.Next()
			if err != nil {
				if Recoverable(err) {
					continue
				}
				return err
			}
			if !ok {
				return nil
			}
			if err := emit(t); err != nil {
				return err
			}
		}
	})
}

// ChannelSource pushes ticks received on ch until it is closed.
func ChannelSource(ch <-chan Tick) PushSource {
	return PushFunc(func(ctx context.Context, emit func(Tick) error) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case t, ok := <-ch:
				if !ok {
					return nil
				}
				if err := emit(t); err != nil {
					return err
				}
			}
		}
	})
}

type subscribeOptions struct {
	log *zap.Logger
}

type SubscribeOption func(*subscribeOptions)

// WithLogger logs the ticks Subscribe skips.
func WithLogger(log *zap.Logger) SubscribeOption {
	return func(o *subscribeOptions) { o.log = log }
}

// Subscribe runs engine inline on every tick src pushes and hands the
// resulting Signal to sink. Ticks with recoverable errors are logged and
// skipped. It returns when src is done, ctx is cancelled, or sink or the
// engine fails for good.
func Subscribe(ctx context.Context, src PushSource, engine *signal.Engine, sink func(signal.Signal) error, opts ...SubscribeOption) error {
	o := subscribeOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	sym := engine.Symbol().Name

	var last *signal.Signal
	return src.Run(ctx, func(t Tick) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := engine.Update(last, t.Quote, t.Aux)
		if err != nil {
			if !Recoverable(err) {
				return err
			}
			o.log.Warn("tick skipped",
				zap.String("symbol", sym),
				zap.Time("time", t.Quote.Time),
				zap.Error(err))
			return nil
		}
		last = &next
		return sink(next)
	})
}
