package net

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	if RequestID(context.Background()) != "" {
		t.Fatalf("empty ctx should have no id")
	}
	ctx := WithRequest(context.Background(), "abc-1")
	if RequestID(ctx) != "abc-1" {
		t.Fatalf("RequestID = %q", RequestID(ctx))
	}
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("blank id should not wrap ctx")
	}
}
