package pkglog

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelationID(ctx); got != "[invalid_chain_id]" {
		t.Fatalf("expected invalid chain id, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "cid-123")
	if got := GetCorrelationID(ctx); got != "cid-123" {
		t.Fatalf("expected cid-123, got %q", got)
	}
}

func TestCarryCorrelationID(t *testing.T) {
	req := SetCorrelationID(context.Background(), "cid-req")
	root := context.Background()

	if got := GetCorrelationID(CarryCorrelationID(root, req)); got != "cid-req" {
		t.Fatalf("expected cid-req, got %q", got)
	}
	if got := CarryCorrelationID(root, context.Background()); got != root {
		t.Fatal("expected target context unchanged when source has no cid")
	}
}

func TestImportID(t *testing.T) {
	ctx := context.Background()
	if got := GetImportID(ctx); got != "" {
		t.Fatalf("expected empty import id, got %q", got)
	}

	ctx = SetImportID(ctx, "imp_1")
	if got := GetImportID(ctx); got != "imp_1" {
		t.Fatalf("expected imp_1, got %q", got)
	}
}
