package router

import (
	"errors"
	"testing"
	"time"
)

func TestRegistryValidCatalog(t *testing.T) {
	reg, err := NewRegistry([]BackendDescriptor{
		{Name: "qwen-turbo", Role: Fast, Provider: "openai", Timeout: 60 * time.Second, Priority: 2},
		{Name: "deepseek-r1", Role: Precision, Provider: "openai", Timeout: 180 * time.Second, Priority: 1},
	})
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 backends, got %d", len(list))
	}

	// List is priority ordered
	if list[0].Name != "deepseek-r1" {
		t.Errorf("Expected deepseek-r1 first, got %s", list[0].Name)
	}

	b, err := reg.Get(Precision)
	if err != nil {
		t.Fatalf("Failed to get precision backend: %v", err)
	}
	if b.Name != "deepseek-r1" {
		t.Errorf("Expected precision backend deepseek-r1, got %s", b.Name)
	}
}

func TestRegistryRejectsEmptyCatalog(t *testing.T) {
	_, err := NewRegistry(nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRegistryRejectsUnknownRole(t *testing.T) {
	_, err := NewRegistry([]BackendDescriptor{
		{Name: "m", Role: "turbo", Provider: "openai", Timeout: time.Second, Priority: 1},
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRegistryRejectsMissingTimeout(t *testing.T) {
	_, err := NewRegistry([]BackendDescriptor{
		{Name: "m1", Role: Precision, Provider: "openai", Priority: 1},
		{Name: "m2", Role: Fast, Provider: "openai", Timeout: time.Second, Priority: 2},
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRegistryRejectsDuplicatePriority(t *testing.T) {
	_, err := NewRegistry([]BackendDescriptor{
		{Name: "m1", Role: Fast, Provider: "openai", Timeout: time.Second, Priority: 1},
		{Name: "m2", Role: Fast, Provider: "openai", Timeout: time.Second, Priority: 1},
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRegistryRequiresBothRoles(t *testing.T) {
	_, err := NewRegistry([]BackendDescriptor{
		{Name: "m1", Role: Fast, Provider: "openai", Timeout: time.Second, Priority: 1},
	})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestRegistryListReturnsCopy(t *testing.T) {
	reg, err := NewRegistry([]BackendDescriptor{
		{Name: "m1", Role: Precision, Provider: "openai", Timeout: time.Second, Priority: 1},
		{Name: "m2", Role: Fast, Provider: "openai", Timeout: time.Second, Priority: 2},
	})
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	list := reg.List()
	list[0].Name = "mutated"

	if reg.List()[0].Name != "m1" {
		t.Error("Mutating the listed slice should not change the catalog")
	}
}
