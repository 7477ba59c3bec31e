package handler

import (
	"strings"
	"testing"
)

func TestValidator_MessagesUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(createInvoiceRequest{AmountCents: -5, Currency: "EUR"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "amount_cents must be greater than 0") {
		t.Errorf("expected json field name in message, got %q", err.Error())
	}
}

func TestValidator_CurrencyLength(t *testing.T) {
	v := NewValidator()

	err := v.Validate(createInvoiceRequest{AmountCents: 5000, Currency: "EURO"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "currency must be exactly 3 characters") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestValidator_JoinsMultipleFailures(t *testing.T) {
	v := NewValidator()

	err := v.Validate(provisionAccountRequest{})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email is required") || !strings.Contains(msg, "full_name is required") {
		t.Errorf("expected both failures reported, got %q", msg)
	}
}
