package auth

import "context"

// The package tests run against MemStore under shorter aliases.
type memStore = MemStore

func newMemStore() *memStore { return NewMemStore() }

// seedUser inserts a user with a real password hash and returns it.
func seedUser(store *memStore, email, password string, role Role, status Status) *User {
	hash, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Status:       status,
		Tier:         TierFree,
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}
