package auth

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{OwnerID: "1b4e28ba-2fa1-11d2-883f-b9a761bde3fb"})

	id, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.OwnerID != "1b4e28ba-2fa1-11d2-883f-b9a761bde3fb" {
		t.Errorf("owner = %q", id.OwnerID)
	}
	if OwnerID(ctx) != id.OwnerID {
		t.Errorf("OwnerID helper = %q", OwnerID(ctx))
	}
}

func TestEmptyContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no identity in a bare context")
	}
	if OwnerID(context.Background()) != "" {
		t.Error("expected empty owner for a bare context")
	}
}
