package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries correlation ids from the HTTP edge into services and job payloads.
type TraceData struct {
	TraceID   string
	RequestID string
	UserID    string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}

// TraceFields returns the non-empty correlation ids as a map suitable for a job payload.
func TraceFields(ctx context.Context) map[string]any {
	td := GetTraceData(ctx)
	if td == nil {
		return nil
	}
	out := map[string]any{}
	if td.TraceID != "" {
		out["trace_id"] = td.TraceID
	}
	if td.RequestID != "" {
		out["request_id"] = td.RequestID
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
