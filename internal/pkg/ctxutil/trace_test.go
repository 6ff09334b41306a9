package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); got != nil {
		t.Fatalf("expected no fields, got %v", got)
	}

	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "req-1"})
	got := LogFields(ctx)
	if len(got) != 2 || got[0] != "request_id" || got[1] != "req-1" {
		t.Fatalf("unexpected fields: %v", got)
	}
}
