package logging

import (
	"context"
	"reflect"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithClient(ctx, "127.0.0.1:40000")
	ctx = WithComponent(ctx, "relay")

	if got := GetSessionID(ctx); got != "sess-1" {
		t.Errorf("GetSessionID() = %q", got)
	}
	if got := GetClient(ctx); got != "127.0.0.1:40000" {
		t.Errorf("GetClient() = %q", got)
	}
	if got := GetComponent(ctx); got != "relay" {
		t.Errorf("GetComponent() = %q", got)
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()
	if GetSessionID(ctx) != "" || GetClient(ctx) != "" || GetComponent(ctx) != "" {
		t.Error("Expected empty values from bare context")
	}
}

func TestExtractContextFields(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want []any
	}{
		{
			name: "empty",
			ctx:  context.Background(),
			want: nil,
		},
		{
			name: "session only",
			ctx:  WithSessionID(context.Background(), "s"),
			want: []any{"session_id", "s"},
		},
		{
			name: "all fields in fixed order",
			ctx:  WithSessionID(WithClient(WithComponent(context.Background(), "admin"), "c:1"), "s"),
			want: []any{"component", "admin", "session_id", "s", "client", "c:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractContextFields(tt.ctx)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractContextFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithSessionID(context.Background(), "first")
	ctx = WithSessionID(ctx, "second")
	if got := GetSessionID(ctx); got != "second" {
		t.Errorf("GetSessionID() = %q, want second", got)
	}
}
