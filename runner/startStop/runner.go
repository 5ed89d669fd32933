/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package startStop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type runner struct {
	mu sync.Mutex

	fctStart FuncStart
	fctStop  FuncStop

	running bool
	since   time.Time

	cancel context.CancelFunc
	done   chan struct{}

	errMu sync.Mutex
	errs  []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.running {
		r.mu.Unlock()
		_ = r.Stop(ctx)
		r.mu.Lock()
	}

	r.clearErrors()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.since = time.Now()

	done := r.done
	fct := r.fctStart
	r.mu.Unlock()

	go r.run(runCtx, fct, done)

	return nil
}

func (r *runner) run(ctx context.Context, fct FuncStart, done chan struct{}) {
	defer close(done)
	defer func() {
		if p := recover(); p != nil {
			r.addError(fmt.Errorf("recovered panic in start function: %v", p))
		}
		r.markStopped()
	}()

	if fct == nil {
		r.addError(errors.New("invalid start function: nil"))
		return
	}

	if err := fct(ctx); err != nil {
		r.addError(err)
	}
}

func (r *runner) markStopped() {
	r.mu.Lock()
	r.running = false
	r.since = time.Time{}
	r.mu.Unlock()
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}

	cancel := r.cancel
	done := r.done
	fct := r.fctStop
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	r.runStop(ctx, fct)

	return nil
}

func (r *runner) runStop(ctx context.Context, fct FuncStop) {
	defer func() {
		if p := recover(); p != nil {
			r.addError(fmt.Errorf("recovered panic in stop function: %v", p))
		}
	}()

	if fct == nil {
		r.addError(errors.New("invalid stop function: nil"))
		return
	}

	if err := fct(ctx); err != nil {
		r.addError(err)
	}
}

func (r *runner) Restart(ctx context.Context) error {
	if err := r.Stop(ctx); err != nil {
		return err
	}
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.since.IsZero() {
		return 0
	}

	return time.Since(r.since)
}

func (r *runner) addError(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *runner) clearErrors() {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errs = nil
}

func (r *runner) ErrorsLast() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
