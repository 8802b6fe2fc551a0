package database

import (
	"testing"
)

func TestUserRepo_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	created, err := repo.Create("alice")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected a non-zero user id")
	}

	found, err := repo.FindByName("alice")
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if found == nil {
		t.Fatal("Expected to find the created user")
	}
	if found.ID != created.ID {
		t.Errorf("Expected id %d, got %d", created.ID, found.ID)
	}
	if found.Name != "alice" {
		t.Errorf("Expected name 'alice', got %q", found.Name)
	}
}

func TestUserRepo_FindMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	found, err := repo.FindByName("nobody")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for a missing user, got %+v", found)
	}
}

func TestUserRepo_Exists(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	exists, err := repo.Exists("bob")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if exists {
		t.Error("Expected user to not exist yet")
	}

	if _, err := repo.Create("bob"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	exists, err = repo.Exists("bob")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !exists {
		t.Error("Expected user to exist after creation")
	}
}

func TestUserRepo_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	if _, err := repo.Create("carol"); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if _, err := repo.Create("carol"); err == nil {
		t.Error("Expected an error creating a duplicate user name")
	}
}
