package services

import (
	"testing"

	"fintrack/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("New.User@Example.com", "password123", "New", "User")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "new.user@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dupe@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUPE@example.com", "password456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("nobody@example.com", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUserWithEmail(t, db, "lookup@example.com")

		user, err := svc.GetUserByEmail("Lookup@Example.com")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByEmail("ghost@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("verify@example.com", "correct-horse", "", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "correct-horse") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrong-battery") {
		t.Error("expected wrong password to fail")
	}
}
