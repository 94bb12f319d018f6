// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Enable returns a copy of the parent context that is cancelled when an
// interrupt or termination signal arrives. The returned stop function
// releases the signal handler.
func Enable(parent context.Context, logFn func(a ...interface{})) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-ch:
			logFn("Signal caught: ", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(ch)
		cancel()
	}
	return ctx, stop
}
