package authc

import (
	"errors"
	"testing"
)

func TestPrincipalsPrimaryAndOrder(t *testing.T) {
	p := NewPrincipals("ldap", "alice", int64(42))
	p.Add("db", "alice@example.com")

	if p.Primary() != "alice" {
		t.Fatalf("Primary = %v, want alice", p.Primary())
	}
	if got := p.Realms(); len(got) != 2 || got[0] != "ldap" || got[1] != "db" {
		t.Fatalf("Realms = %v", got)
	}
	if got := p.All(); len(got) != 3 {
		t.Fatalf("All = %v", got)
	}
	if got := p.FromRealm("db"); len(got) != 1 || got[0] != "alice@example.com" {
		t.Fatalf("FromRealm(db) = %v", got)
	}
}

func TestPrincipalsDeduplicates(t *testing.T) {
	p := NewPrincipals("ldap", "alice")
	p.Add("ldap", "alice", "alice")
	if got := p.FromRealm("ldap"); len(got) != 1 {
		t.Fatalf("FromRealm(ldap) = %v, want one entry", got)
	}
}

func TestPrincipalsAcceptUncomparableValues(t *testing.T) {
	type compound struct {
		Name   string
		Groups []string
	}
	p := NewPrincipals("ldap", compound{Name: "alice", Groups: []string{"ops"}})
	p.Add("ldap", compound{Name: "alice", Groups: []string{"ops"}})
	p.Add("ldap", []string{"alice", "admin"})
	p.Add("ldap", []string{"alice", "admin"})

	if got := p.FromRealm("ldap"); len(got) != 2 {
		t.Fatalf("FromRealm(ldap) = %v, want the two distinct values", got)
	}
}

func TestPrincipalsEmpty(t *testing.T) {
	var p *Principals
	if !p.IsEmpty() {
		t.Fatal("nil collection should be empty")
	}
	if p.Primary() != nil {
		t.Fatal("nil collection has no primary")
	}
	if (&Principals{}).Primary() != nil {
		t.Fatal("zero collection has no primary")
	}
}

func TestMergeAdoptsIntoEmptyAggregate(t *testing.T) {
	agg := NewAggregate()
	info := NewInfo("ldap", "alice", []byte("secret"))

	merged, err := Merge(agg, info)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Principals.Primary() != "alice" {
		t.Fatalf("primary = %v", merged.Principals.Primary())
	}
	if merged.Kind != KindMergable {
		t.Fatal("aggregate must stay mergable")
	}
}

func TestMergeFoldsSecondRealm(t *testing.T) {
	agg := NewAggregate()
	agg, err := Merge(agg, NewInfo("ldap", "alice", []byte("secret")))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	agg, err = Merge(agg, NewInfo("db", "alice@example.com", nil))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if got := agg.Principals.Realms(); len(got) != 2 {
		t.Fatalf("Realms = %v", got)
	}
	if agg.Principals.Primary() != "alice" {
		t.Fatalf("primary = %v, want first realm's principal", agg.Principals.Primary())
	}
}

func TestMergeIntoNonMergableFails(t *testing.T) {
	simple := NewInfo("ldap", "alice", []byte("secret"))
	_, err := Merge(simple, NewInfo("db", "bob", nil))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestTokenClear(t *testing.T) {
	token := NewUsernamePassword("alice", []byte("hunter2"))
	token.Clear()
	if token.Password != nil {
		t.Fatal("password should be wiped")
	}
}
