package auth

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var storedHashPattern = regexp.MustCompile(`'([0-9a-f]{32}:[0-9a-f]{64})'`)

// The bootstrap seed must contain a working hash for its documented
// password, or the seeded super_admin can never log in.
func TestBootstrapSeedHashVerifies(t *testing.T) {
	path := filepath.Join("..", "..", "ops", "migrations", "seeds", "0001_bootstrap_admin.sql")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read seed file: %v", err)
	}
	match := storedHashPattern.FindSubmatch(raw)
	if match == nil {
		t.Fatal("no stored password hash found in the bootstrap seed")
	}
	stored := string(match[1])
	if !VerifyPassword("change-me-immediately", stored) {
		t.Fatal("seed hash does not verify against the documented password")
	}
	if VerifyPassword("some-other-password", stored) {
		t.Fatal("seed hash verified a wrong password")
	}
}
