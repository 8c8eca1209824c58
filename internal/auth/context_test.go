package auth

import (
	"context"
	"testing"
)

func TestIdentityContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context must not yield an identity")
	}

	ctx = ContextWithIdentity(ctx, Identity{ID: "user-7", Email: "carol@x.com"})
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.ID != "user-7" {
		t.Fatalf("unexpected identity: %+v ok=%v", identity, ok)
	}
}

func TestTokenContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := TokenFromContext(ctx); ok {
		t.Fatal("empty context must not yield a token")
	}
	ctx = ContextWithToken(ctx, "raw-token")
	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw-token" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}
	if ctx2 := ContextWithToken(ctx, ""); ctx2 != ctx {
		t.Fatal("empty token must not replace the context")
	}
}
