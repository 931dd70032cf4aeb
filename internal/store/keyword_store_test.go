package store_test

import (
	"context"
	"testing"

	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/testutil"
)

func TestKeywordStore_AddIsIdempotent(t *testing.T) {
	ks := store.NewKeywordStore(testutil.NewTestDB(t))
	ctx := context.Background()

	k1, err := ks.Add(ctx, "machine learning", store.KeywordPrimary, "Technical", "manual")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	k2, err := ks.Add(ctx, "machine learning", store.KeywordPrimary, "Other", "manual")
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if k1.ID != k2.ID {
		t.Errorf("second Add created a new row: %s != %s", k1.ID, k2.ID)
	}
	if k2.UsageCount != 0 {
		t.Errorf("usage_count = %d, want 0", k2.UsageCount)
	}

	// same text under another type is a separate row
	if _, err := ks.Add(ctx, "machine learning", store.KeywordSecondary, "", "manual"); err != nil {
		t.Fatalf("Add secondary: %v", err)
	}
	all, err := ks.ListByType(ctx, store.KeywordSecondary)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(secondary) = %d, want 1", len(all))
	}
}

func TestKeywordStore_Delete(t *testing.T) {
	ks := store.NewKeywordStore(testutil.NewTestDB(t))
	ctx := context.Background()

	k, err := ks.Add(ctx, "nlp", store.KeywordPrimary, "", "manual")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ks.Delete(ctx, k.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ks.Delete(ctx, k.ID); err != store.ErrNotFound {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if _, err := ks.Get(ctx, "nlp", store.KeywordPrimary); err != store.ErrNotFound {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
}
