package strategies

import "github.com/rustyeddy/signals/signal"

// Noop never places a setup.
var Noop signal.Strategy = signal.Noop
