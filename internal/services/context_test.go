package services_test

import (
	"context"
	"testing"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOwnerID(ctx, "owner-7")
	ctx = services.WithItemID(ctx, 42)
	ctx = services.WithStep(ctx, "generate_article")
	ctx = services.WithRequestID(ctx, "req-123")

	if owner, ok := services.OwnerIDFromContext(ctx); !ok || owner != "owner-7" {
		t.Fatalf("unexpected owner id: %v %v", owner, ok)
	}
	if id, ok := services.ItemIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected item id: %v %v", id, ok)
	}
	if step, ok := services.StepFromContext(ctx); !ok || step != "generate_article" {
		t.Fatalf("unexpected step: %v %v", step, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStepBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStep(ctx, "")
	if _, ok := services.StepFromContext(ctx); ok {
		t.Fatal("expected no step value")
	}
}

func TestOwnerBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOwnerID(ctx, "")
	if _, ok := services.OwnerIDFromContext(ctx); ok {
		t.Fatal("expected no owner value")
	}
}
