package pricing

import (
	"context"
	"testing"

	"github.com/printhub/printhub-backend/pkg/enums"
	pkgerrors "github.com/printhub/printhub-backend/pkg/errors"
	"github.com/printhub/printhub-backend/pkg/types"
)

func TestPrice_KnownTuples(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	cases := []struct {
		name        string
		productType enums.ProductType
		params      types.PrintParams
		want        Quote
	}{
		{
			name:        "visiting card baseline",
			productType: enums.ProductVisitingCard,
			params: types.PrintParams{
				PaperType:   enums.PaperOffset,
				PaperWeight: "130",
				ColorMode:   enums.ColorSingleSideMono,
				Circulation: 100,
			},
			want: Quote{Base: 500, Options: 100, Total: 600},
		},
		{
			name:        "flyer full color coated",
			productType: enums.ProductFlyer,
			params: types.PrintParams{
				PaperType:   enums.PaperCoated,
				PaperWeight: "170",
				ColorMode:   enums.ColorDoubleSideFull,
				Circulation: 100,
			},
			want: Quote{Base: 4680, Options: 936, Total: 5616},
		},
		{
			name:        "booklet scales with circulation",
			productType: enums.ProductBooklet,
			params: types.PrintParams{
				PaperType:   enums.PaperOffset,
				PaperWeight: "130",
				ColorMode:   enums.ColorSingleSideMono,
				Circulation: 250,
			},
			want: Quote{Base: 6250, Options: 1250, Total: 7500},
		},
		{
			name:        "unknown keys fall back to defaults",
			productType: enums.ProductType("sticker"),
			params: types.PrintParams{
				PaperType:   enums.PaperType("kraft"),
				PaperWeight: "999",
				ColorMode:   enums.ColorMode("8+8"),
				Circulation: 100,
			},
			want: Quote{Base: 500, Options: 100, Total: 600},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Price(ctx, tc.productType, tc.params)
			if err != nil {
				t.Fatalf("Price: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected quote: got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestPrice_Deterministic(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	params := types.PrintParams{
		PaperType:   enums.PaperDesign,
		PaperWeight: "300",
		ColorMode:   enums.ColorDoubleSideMono,
		Circulation: 730,
	}

	first, err := svc.Price(ctx, enums.ProductCalendar, params)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := svc.Price(ctx, enums.ProductCalendar, params)
		if err != nil {
			t.Fatalf("Price repeat: %v", err)
		}
		if again != first {
			t.Fatalf("pricing not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestPrice_RejectsNonPositiveCirculation(t *testing.T) {
	svc := NewService()

	for _, circulation := range []int{0, -10} {
		_, err := svc.Price(context.Background(), enums.ProductFlyer, types.PrintParams{Circulation: circulation})
		if err == nil {
			t.Fatalf("expected error for circulation %d", circulation)
		}
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
}

func TestCatalog(t *testing.T) {
	svc := NewService()

	entries := svc.Catalog(context.Background())
	if len(entries) != len(enums.CatalogProductTypes) {
		t.Fatalf("expected %d entries, got %d", len(enums.CatalogProductTypes), len(entries))
	}
	if entries[0].Type != enums.ProductVisitingCard || entries[0].BasePrice != 500 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	for _, entry := range entries {
		if entry.Name == "" {
			t.Fatalf("entry %s missing display name", entry.Type)
		}
	}

	if got := svc.ProductName(enums.ProductFlyer); got != "Листовки" {
		t.Fatalf("unexpected product name: %s", got)
	}
	if got := svc.ProductName(enums.ProductBooklet); got != "Брошюры" {
		t.Fatalf("unexpected product name: %s", got)
	}
	if got := svc.ProductName(enums.ProductType("sticker")); got != "sticker" {
		t.Fatalf("expected raw key fallback, got %s", got)
	}
}
