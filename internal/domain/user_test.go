package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	validName := "Test User"
	validEmail := "test@example.com"
	validPassword := "password123"

	user, err := NewUser(validName, validEmail, validPassword)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Name != validName {
		t.Errorf("Expected name %s, got %s", validName, user.Name)
	}

	if user.Email != validEmail {
		t.Errorf("Expected email %s, got %s", validEmail, user.Email)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Invalid name
	_, err = NewUser("", validEmail, validPassword)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	// Invalid email
	_, err = NewUser(validName, "", validPassword)
	if !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	_, err = NewUser(validName, "invalidemail", validPassword)
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Invalid password
	_, err = NewUser(validName, validEmail, "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	_, err = NewUser(validName, validEmail, strings.Repeat("x", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooLong, err)
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:             uuid.New(),
		Name:           "Test User",
		Email:          "test@example.com",
		HashedPassword: "hashedpassword123",
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	invalidUser = validUser
	invalidUser.Name = "   "
	if err := invalidUser.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	invalidUser = validUser
	invalidUser.Email = "invalidemail"
	if err := invalidUser.Validate(); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// A user without a plaintext password must carry a hash.
	invalidUser = validUser
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestUserRef(t *testing.T) {
	user := User{
		ID:             uuid.New(),
		Name:           "Test User",
		Email:          "test@example.com",
		HashedPassword: "hashedpassword123",
	}

	ref := user.Ref()

	if ref.ID != user.ID {
		t.Errorf("Expected ID %v, got %v", user.ID, ref.ID)
	}
	if ref.Name != user.Name {
		t.Errorf("Expected name %s, got %s", user.Name, ref.Name)
	}
	if ref.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, ref.Email)
	}
}

func TestValidationErrorsWrapSentinel(t *testing.T) {
	for _, err := range []error{
		ErrEmptyUserID,
		ErrEmptyName,
		ErrEmptyEmail,
		ErrInvalidEmail,
		ErrEmptyPassword,
		ErrPasswordTooShort,
		ErrPasswordTooLong,
	} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected %v to wrap ErrValidation", err)
		}
	}
}
