package main

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

type reqContextKey struct{}

// ReqContext collects key=value pairs for the access log line of one request.
type ReqContext struct {
	logbuf  bytes.Buffer
	started time.Time
	stopped time.Time
	dur     time.Duration
}

func NewReqContext() *ReqContext {
	me := &ReqContext{}
	return me
}

func WithReqContext(ctx context.Context, rc *ReqContext) context.Context {
	return context.WithValue(ctx, reqContextKey{}, rc)
}

// FromContext returns the request's ReqContext, or a detached one so callers
// never need a nil check.
func FromContext(ctx context.Context) *ReqContext {
	if rc, ok := ctx.Value(reqContextKey{}).(*ReqContext); ok {
		return rc
	}
	return NewReqContext()
}

func (me *ReqContext) Start() {
	me.started = time.Now()
}

func (me *ReqContext) Stop() {
	me.stopped = time.Now()
	me.dur = me.stopped.Sub(me.started)
}

func (me *ReqContext) DurationMs() int64 {
	return int64(me.dur.Milliseconds())
}

func (me *ReqContext) AppendKV(key string, value string) {
	fmt.Fprintf(&me.logbuf, " %s=%s", key, value)
}

func (me *ReqContext) String() string {
	return me.logbuf.String()
}
