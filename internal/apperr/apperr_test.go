package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("wrapped: %w", ErrMissingProduct)
	timeout := &NetworkError{Op: "calculate price", Err: context.DeadlineExceeded}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "missing_product", err: ErrMissingProduct, want: "missing_product"},
		{name: "missing_product_wrapped", err: wrapped, want: "missing_product"},
		{name: "validation", err: ErrValidation, want: "validation"},
		{name: "rejected", err: Rejected("add to cart", "out of stock"), want: "rejected"},
		{name: "network_status", err: &NetworkError{Op: "add to cart", StatusCode: 500}, want: "network"},
		{name: "network_timeout", err: timeout, want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "unknown", err: errors.New("unknown"), want: "internal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Kind(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	const fallback = "could not add the item to your cart"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "status_with_message", err: &NetworkError{Op: "add to cart", StatusCode: 500, Message: "Stock épuisé"}, want: "Stock épuisé"},
		{name: "status_without_message", err: &NetworkError{Op: "add to cart", StatusCode: 502}, want: fallback},
		{name: "transport", err: &NetworkError{Op: "add to cart", Err: errors.New("connection refused")}, want: fallback},
		{name: "rejected_with_message", err: Rejected("add to cart", "Produit indisponible"), want: "Produit indisponible"},
		{name: "rejected_blank_message", err: Rejected("add to cart", "   "), want: fallback},
		{name: "wrapped", err: fmt.Errorf("submit: %w", &NetworkError{Op: "add to cart", Message: "nope"}), want: "nope"},
		{name: "plain", err: errors.New("boom"), want: fallback},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := UserMessage(tt.err, fallback); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNetworkErrorMatchesSentinelAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("load catalog: %w", &NetworkError{Op: "customization options", Err: cause})

	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if got := err.Error(); got != "load catalog: customization options: dial tcp: refused" {
		t.Fatalf("unexpected message %q", got)
	}
}
