package scanner

import (
	"context"
	"testing"

	"NewsDigest/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(context.Context, Request) ([]domain.Article, error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedScanner("naver"))

	got, err := reg.Resolve("naver")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Name() != "naver" {
		t.Fatalf("unexpected scanner: %s", got.Name())
	}

	if _, err := reg.Resolve("daum"); err == nil {
		t.Fatal("expected error for unregistered scanner")
	}
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(namedScanner("naver"))
	if _, err := reg.Resolve("naver"); err != nil {
		t.Fatalf("zero registry should accept registrations: %v", err)
	}
}
