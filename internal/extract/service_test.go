package extract

import (
	"testing"

	"github.com/vgauthier/recevo/internal/model"
)

func newTestService() *Service {
	return NewService(model.DefaultConfig().Rules)
}

func TestService_ExtractAllEntityTypes(t *testing.T) {
	svc := newTestService()

	text := `Réclamation CSPE

Décision du 01/01/2023 contestée par la présente.
Facture n° FAC-2014-0042 d'un montant de 12 345,67 € au titre de 2014.`

	bundle, normalized := svc.Extract(text)
	if normalized == "" {
		t.Fatal("Expected normalized text")
	}

	if len(bundle.Dates) != 1 {
		t.Fatalf("Expected 1 date, got %d", len(bundle.Dates))
	}
	if bundle.Dates[0].Value != "2023-01-01" {
		t.Errorf("Expected 2023-01-01, got %s", bundle.Dates[0].Value)
	}

	if len(bundle.Amounts) != 1 {
		t.Fatalf("Expected 1 amount, got %d (%v)", len(bundle.Amounts), bundle.Amounts)
	}
	if bundle.Amounts[0].Value != "12345.67" {
		t.Errorf("Expected 12345.67, got %s", bundle.Amounts[0].Value)
	}

	if len(bundle.References) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(bundle.References))
	}
	if bundle.References[0].Value != "FAC-2014-0042" {
		t.Errorf("Expected FAC-2014-0042, got %s", bundle.References[0].Value)
	}
}

func TestService_EmptyInput(t *testing.T) {
	svc := newTestService()

	bundle, normalized := svc.Extract("   \n\t  ")
	if normalized != "" {
		t.Errorf("Expected empty normalized text, got %q", normalized)
	}
	if len(bundle.Dates)+len(bundle.Amounts)+len(bundle.References) != 0 {
		t.Errorf("Expected empty bundle, got %+v", bundle)
	}
}

func TestService_DayNumbersInsideDatesAreNotAmounts(t *testing.T) {
	svc := newTestService()

	bundle, _ := svc.Extract("Décision notifiée le 25 décembre 2022.")
	if len(bundle.Dates) != 1 {
		t.Fatalf("Expected 1 date, got %d", len(bundle.Dates))
	}
	if len(bundle.Amounts) != 0 {
		t.Errorf("Expected no amounts, got %v", bundle.Amounts)
	}
}

func TestService_Deterministic(t *testing.T) {
	svc := newTestService()

	text := "Décision du 01/01/2023, facture n° F-123456 de 2 500,00 € au titre de 2014."
	first, _ := svc.Extract(text)
	for i := 0; i < 5; i++ {
		again, _ := svc.Extract(text)
		if len(again.Dates) != len(first.Dates) ||
			len(again.Amounts) != len(first.Amounts) ||
			len(again.References) != len(first.References) {
			t.Fatalf("Run %d produced different entity counts", i)
		}
		for j := range first.Dates {
			if again.Dates[j] != first.Dates[j] {
				t.Errorf("Run %d date %d differs", i, j)
			}
		}
		for j := range first.References {
			if again.References[j] != first.References[j] {
				t.Errorf("Run %d reference %d differs", i, j)
			}
		}
	}
}
