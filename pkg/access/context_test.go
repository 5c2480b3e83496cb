package access

import (
	"context"
	"testing"
)

func TestGoodFromContext(t *testing.T) {
	ctx := WithContext(context.TODO(), Set{TaskCreate})
	if s := FromContext(ctx); !s.Has(TaskCreate) {
		t.Errorf("FromContext(ctx) => %v, want %v", s, Set{TaskCreate})
	}
}

func TestBadFromContext(t *testing.T) {
	if s := FromContext(context.TODO()); s != nil {
		t.Errorf("FromContext(ctx) => %v, want nil", s)
	}
}
