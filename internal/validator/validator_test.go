package validator

import (
	"errors"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("alice_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateUsername("a!"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected invalid username, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("a@b.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateEmail("nope"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password, got %v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	if errs.Any() {
		t.Fatalf("expected empty errors")
	}
	errs.Add("score", "Ensure this value is less than or equal to 3.")
	errs.Add("label", "This field is required.")
	if !errs.Any() || len(errs["score"]) != 1 {
		t.Fatalf("unexpected errors: %#v", errs)
	}
	var target FieldErrors
	var err error = errs
	if !errors.As(err, &target) {
		t.Fatalf("expected FieldErrors to be matched by errors.As")
	}
	want := "validation failed: label: This field is required., score: Ensure this value is less than or equal to 3."
	if errs.Error() != want {
		t.Fatalf("unexpected message: %s", errs.Error())
	}
}
