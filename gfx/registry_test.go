// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"
	"slices"
	"testing"
)

// mockBackend is a NullBackend under a different name.
type mockBackend struct {
	*NullBackend
	name string
}

func (b *mockBackend) Name() string { return b.name }

func TestRegisterAndNewBackend(t *testing.T) {
	Register("mock", func() Backend {
		return &mockBackend{NullBackend: NewNullBackend(), name: "mock"}
	})
	t.Cleanup(func() { Unregister("mock") })

	b, err := NewBackend("mock")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if b.Name() != "mock" {
		t.Errorf("Name() = %q, want %q", b.Name(), "mock")
	}
	if !IsRegistered("mock") {
		t.Error("IsRegistered(mock) = false")
	}
	if names := Backends(); !slices.Contains(names, "mock") || !slices.IsSorted(names) {
		t.Errorf("Backends() = %v, want sorted and containing mock", names)
	}
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend("does-not-exist")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewBackend() error = %v, want ErrUnknownBackend", err)
	}
}

func TestNullBackendRegistered(t *testing.T) {
	b := MustBackend(NullBackendName)
	if _, ok := b.(*NullBackend); !ok {
		t.Errorf("MustBackend(null) = %T, want *NullBackend", b)
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name    string
		factory BackendFactory
	}{
		{"nil factory", nil},
		{"duplicate", func() Backend { return NewNullBackend() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			Register(NullBackendName, tt.factory)
		})
	}
}

func TestMustBackendPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBackend did not panic for an unknown name")
		}
	}()
	MustBackend("does-not-exist")
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	b := NewNullBackend()
	SetDefaultBackend(b)
	if DefaultBackend() != Backend(b) {
		t.Error("DefaultBackend() did not return the installed backend")
	}
	NewPaint().Native()
	if b.Created() != 1 {
		t.Errorf("Created() = %d, want 1 native from the package-level constructor", b.Created())
	}

	SetDefault(nil)
	if Default() == nil || DefaultBackend().Name() != NullBackendName {
		t.Error("SetDefault(nil) did not restore a null resource set")
	}
}
