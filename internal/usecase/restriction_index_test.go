package usecase

import (
	"testing"

	"github.com/scansafe/backend/internal/domain"
)

func TestBuildRestrictionIndex(t *testing.T) {
	t.Run("empty profile builds empty index", func(t *testing.T) {
		idx := BuildRestrictionIndex(&domain.Profile{ID: "p1", Name: "Empty"})
		if !idx.Empty() {
			t.Error("index should be empty for profile without rules or terms")
		}
	})

	t.Run("nil profile builds empty index", func(t *testing.T) {
		idx := BuildRestrictionIndex(nil)
		if !idx.Empty() {
			t.Error("index should be empty for nil profile")
		}
	})

	t.Run("disabled rules are skipped", func(t *testing.T) {
		idx := BuildRestrictionIndex(&domain.Profile{
			Rules: []domain.RestrictionRule{
				{ID: "r1", Name: "Milk", Category: domain.CategoryAllergen, Keywords: []string{"milk"}, Enabled: false},
			},
		})
		if !idx.Empty() {
			t.Error("disabled rule should not be indexed")
		}
	})

	t.Run("enabled rule with no keywords is a no-op, not an error", func(t *testing.T) {
		idx := BuildRestrictionIndex(&domain.Profile{
			Rules: []domain.RestrictionRule{
				{ID: "nonexistent", Name: "Empty rule", Category: domain.CategoryDietary, Enabled: true},
			},
		})
		if !idx.Empty() {
			t.Error("rule without keywords should be a no-op")
		}
	})

	t.Run("rule referencing a builtin id inherits its keywords", func(t *testing.T) {
		idx := BuildRestrictionIndex(&domain.Profile{
			Rules: []domain.RestrictionRule{
				{ID: "milk", Enabled: true},
			},
		})
		hits := idx.Match("contains whey powder")
		if len(hits) == 0 {
			t.Fatal("expected builtin milk keywords to match")
		}
		if hits[0].Restriction != "Milk / Lactose" {
			t.Errorf("Restriction = %q, want builtin rule name", hits[0].Restriction)
		}
		if hits[0].Category != domain.CategoryAllergen {
			t.Errorf("Category = %q, want allergen", hits[0].Category)
		}
	})

	t.Run("custom terms are indexed as their own entries", func(t *testing.T) {
		idx := BuildRestrictionIndex(&domain.Profile{
			CustomTerms: []string{"Carrageenan", "  aspartame  "},
		})
		hits := idx.Match("water, carrageenan, aspartame")
		if len(hits) != 2 {
			t.Fatalf("hits = %d, want 2", len(hits))
		}
		for _, hit := range hits {
			if !hit.Custom {
				t.Errorf("hit %q should be flagged custom", hit.Term)
			}
		}
	})
}

func TestRestrictionIndexMatch(t *testing.T) {
	profile := &domain.Profile{
		Rules: []domain.RestrictionRule{
			{ID: "r1", Name: "Gluten", Category: domain.CategoryAllergen, Keywords: []string{"gluten", "wheat"}, Enabled: true},
			{ID: "r2", Name: "Vegan", Category: domain.CategoryDietary, Keywords: []string{"honey"}, Enabled: true},
		},
	}
	idx := BuildRestrictionIndex(profile)

	t.Run("matching is case-insensitive", func(t *testing.T) {
		hits := idx.Match("Contains WHEAT flour")
		if len(hits) != 1 {
			t.Fatalf("hits = %d, want 1", len(hits))
		}
		if hits[0].Term != "wheat" || hits[0].Restriction != "Gluten" {
			t.Errorf("hit = %+v, want wheat/Gluten", hits[0])
		}
	})

	t.Run("all stem hits are reported without early exit", func(t *testing.T) {
		hits := idx.Match("wheat flour, gluten, honey")
		if len(hits) != 3 {
			t.Fatalf("hits = %d, want 3 (two gluten stems plus honey)", len(hits))
		}
	})

	t.Run("absent keywords never match", func(t *testing.T) {
		hits := idx.Match("water, salt, sugar")
		if len(hits) != 0 {
			t.Errorf("hits = %v, want none", hits)
		}
	})

	t.Run("empty text matches nothing", func(t *testing.T) {
		if hits := idx.Match(""); hits != nil {
			t.Errorf("hits = %v, want nil", hits)
		}
	})
}
