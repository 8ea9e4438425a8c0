package password

import (
	"strings"
	"testing"
)

func testPolicy() *Policy {
	return NewPolicy(DefaultConfig(), nil)
}

func TestValidateCompliantPasswords(t *testing.T) {
	p := testPolicy()
	for _, pw := range []string{
		"Tr!ckyRiver42x",
		"N0t-Gu3ssable!",
		"Vf9$kLm2#pQw8z",
	} {
		res := p.Validate(pw, nil)
		if !res.Valid {
			t.Errorf("Validate(%q) = %v, want valid", pw, res.Errors)
		}
	}
}

func TestValidateRejections(t *testing.T) {
	p := testPolicy()
	tests := []struct {
		name     string
		password string
		wantPart string
	}{
		{"too short", "Ab1!x", "at least 12"},
		{"too long", strings.Repeat("Ab1!", 40), "at most 128"},
		{"no uppercase", "tr!ckyriver42xx", "uppercase"},
		{"no lowercase", "TR!CKYRIVER42XX", "lowercase"},
		{"no digit", "Tr!ckyRiverXyzQ", "digit"},
		{"no special", "TrickyRiver42xx", "special"},
		{"common exact", "Password123!", "too common"},
		{"common contained", "MyQwertyuiopX9!", "too common"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Validate(tt.password, nil)
			if res.Valid {
				t.Fatalf("Validate(%q) valid, want rejection", tt.password)
			}
			found := false
			for _, e := range res.Errors {
				if strings.Contains(e, tt.wantPart) {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors %v missing %q", res.Errors, tt.wantPart)
			}
		})
	}
}

func TestValidateContextRejections(t *testing.T) {
	p := testPolicy()

	res := p.Validate("Xk2!john.smith9Z", &Context{Email: "john.smith@clinic.example"})
	if res.Valid {
		t.Fatal("password containing email local-part must be rejected")
	}

	res = p.Validate("Xk2!MARGARET77$", &Context{Name: "Margaret"})
	if res.Valid {
		t.Fatal("password containing the user's name must be rejected (case-insensitive)")
	}

	// Context present but nothing matches.
	res = p.Validate("Vf9$kLm2#pQw8z", &Context{Email: "john.smith@clinic.example", Name: "Margaret"})
	if !res.Valid {
		t.Fatalf("unexpected rejection: %v", res.Errors)
	}
}

func TestValidateHistoryReuse(t *testing.T) {
	hasher, err := NewHasher(4, nil)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	p := NewPolicy(DefaultConfig(), hasher.Compare)

	reused := "Vf9$kLm2#pQw8z"
	hash, err := hasher.Hash(reused)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	res := p.Validate(reused, &Context{PriorHashes: []string{hash}})
	if res.Valid {
		t.Fatal("reused password must be rejected")
	}
	res = p.Validate("Fresh!Pass9word", &Context{PriorHashes: []string{hash}})
	if !res.Valid {
		t.Fatalf("fresh password rejected: %v", res.Errors)
	}
}

func TestHistoryPushEvictsOldest(t *testing.T) {
	var h History
	for _, hash := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		h = h.Push(hash, 5)
	}
	if len(h) != 5 {
		t.Fatalf("history length = %d, want 5", len(h))
	}
	if h[0] != "h6" {
		t.Fatalf("most recent entry = %s, want h6", h[0])
	}
	for _, entry := range h {
		if entry == "h1" {
			t.Fatal("oldest entry h1 should have been evicted")
		}
	}
}
