// Package invariant reports internal geometry invariant violations.
//
// A violation means a latent defect in ray casting or area computation, so
// it is never tolerated: the failure is logged with the violated condition,
// the offending values and the caller's source location, and then the
// current goroutine panics with a *Violation. Nothing in the sensor model
// recovers from it.
package invariant

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/zeusync/mazesense/internal/core/observability/log"
)

var logger atomic.Pointer[log.Log]

// SetLogger replaces the logger used to report violations. The default is
// log.Provide().
func SetLogger(l log.Log) {
	logger.Store(&l)
}

func current() log.Log {
	if l := logger.Load(); l != nil {
		return *l
	}
	return log.Provide()
}

// Violation carries the context of a failed invariant.
type Violation struct {
	Condition string
	Values    map[string]any
	File      string
	Line      int
}

func (v *Violation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invariant violated: %s at %s:%d", v.Condition, v.File, v.Line)
	keys := make([]string, 0, len(v.Values))
	for k := range v.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, v.Values[k])
	}
	return b.String()
}

// Check panics with a *Violation when cond is false. values are attached to
// the report as key/value pairs.
func Check(cond bool, condition string, values ...log.Field) {
	if cond {
		return
	}
	fail(condition, values)
}

// InRange checks lo <= value <= hi. NaN is always out of range.
func InRange(value, lo, hi float64, name string) {
	if lo <= value && value <= hi {
		return
	}
	fail(fmt.Sprintf("%g <= %s <= %g", lo, name, hi), []log.Field{log.Float64(name, value)})
}

func fail(condition string, values []log.Field) {
	// skip fail and its exported caller
	_, file, line, _ := runtime.Caller(2)

	v := &Violation{
		Condition: condition,
		Values:    make(map[string]any, len(values)),
		File:      file,
		Line:      line,
	}
	for _, f := range values {
		v.Values[f.Key] = f.Value
	}

	fields := append([]log.Field{
		log.String("condition", condition),
		log.String("file", file),
		log.Int("line", line),
	}, values...)
	current().Error("invariant violated", fields...)

	panic(v)
}
