// Package goroutine holds the dispatch helper for fire-and-forget
// billing side effects.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"unimarket/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine and turns a panic into an error
// log entry instead of a process crash. Notification sends and other
// best-effort work run through here, so a fault in one of them can
// never take down an IPN response or a renewal batch.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Errorw("background task panicked",
				"task", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}()
		fn()
	}()
}
