package store

import (
	"context"
	"testing"
)

func TestLanguageStoreFindByCode(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	lang := testLanguage(t, db, "xe")
	s := NewLanguageStore(db)

	got, err := s.FindByCode(ctx, "xe")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if got == nil || got.ID != lang.ID {
		t.Fatalf("FindByCode: got %+v, want id %d", got, lang.ID)
	}
	if got.IsDefault {
		t.Error("test language must not be default")
	}

	missing, err := s.FindByCode(ctx, "zz-missing")
	if err != nil {
		t.Fatalf("FindByCode missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown code, got %+v", missing)
	}
}

func TestLanguageStoreList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	testLanguage(t, db, "xf")

	langs, err := NewLanguageStore(db).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for i, l := range langs {
		if l.Code == "xf" {
			found = true
		}
		if l.IsDefault && i != 0 {
			t.Errorf("default language at index %d, want 0", i)
		}
	}
	if !found {
		t.Error("expected created language in list")
	}
}
