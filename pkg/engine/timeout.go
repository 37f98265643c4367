package engine

import (
	"fmt"
	"time"

	"github.com/chazu/seam/pkg/scene"
)

// evalResult carries an evaluation outcome from the worker goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// wait returns the result from ch unless timeout elapses first. A result
// whose generation is no longer current is discarded.
//
// On timeout the goroutine may still be running; the generation check
// discards its result when it eventually completes.
func (e *Engine) wait(ch <-chan evalResult, gen uint64, timeout time.Duration) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("after %s: %w", timeout, ErrTimeout)
	}
}
