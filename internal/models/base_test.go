package models

import "testing"

func TestBase_BeforeCreate(t *testing.T) {
	t.Run("generates_id", func(t *testing.T) {
		var b Base
		if err := b.BeforeCreate(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.ID == "" {
			t.Fatal("expected an id")
		}
	})

	t.Run("normalizes_supplied_id", func(t *testing.T) {
		b := Base{ID: "0190F0D4-1C2B-7A3E-8B4C-5D6E7F8091A2"}
		if err := b.BeforeCreate(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.ID != "0190f0d4-1c2b-7a3e-8b4c-5d6e7f8091a2" {
			t.Errorf("unexpected id %s", b.ID)
		}
	})

	t.Run("rejects_invalid_id", func(t *testing.T) {
		b := Base{ID: "budget-1"}
		if err := b.BeforeCreate(nil); err == nil {
			t.Error("expected error for invalid id")
		}
	})
}
