package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"splitpath/internal/models"
)

func TestCreateExperiment(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp := &models.Experiment{
		Name: "hero-copy",
		Variants: []models.Variant{
			{Name: "control", Path: "/hero/a", Weight: 70, IsControl: true},
			{Name: "challenger", Path: "/hero/b", Weight: 30},
		},
	}

	if err := db.CreateExperiment(ctx, exp); err != nil {
		t.Fatalf("CreateExperiment() error = %v", err)
	}

	if exp.ID == uuid.Nil {
		t.Error("CreateExperiment() did not set ID")
	}
	if exp.Status != models.StatusActive {
		t.Errorf("CreateExperiment() status = %q, want %q", exp.Status, models.StatusActive)
	}
	for i, v := range exp.Variants {
		if v.ID == uuid.Nil {
			t.Errorf("variant %d: ID not set", i)
		}
		if v.Position != i {
			t.Errorf("variant %d: position = %d, want %d", i, v.Position, i)
		}
	}
}

func TestCreateExperiment_DuplicateName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp1 := &models.Experiment{
		Name:     "duplicate-test",
		Variants: []models.Variant{{Name: "a", Path: "/d/a", Weight: 1}},
	}
	if err := db.CreateExperiment(ctx, exp1); err != nil {
		t.Fatalf("CreateExperiment() first error = %v", err)
	}

	exp2 := &models.Experiment{
		Name:     "duplicate-test",
		Variants: []models.Variant{{Name: "a", Path: "/d/b", Weight: 1}},
	}
	if err := db.CreateExperiment(ctx, exp2); err != ErrDuplicateName {
		t.Errorf("CreateExperiment() error = %v, want ErrDuplicateName", err)
	}
}

func TestCreateExperiment_DuplicateVariantName(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	exp := &models.Experiment{
		Name: "dup-variant",
		Variants: []models.Variant{
			{Name: "same", Path: "/dv/a", Weight: 1},
			{Name: "same", Path: "/dv/b", Weight: 1},
		},
	}
	if err := db.CreateExperiment(context.Background(), exp); err != ErrDuplicateVariant {
		t.Errorf("CreateExperiment() error = %v, want ErrDuplicateVariant", err)
	}
}

func TestGetExperimentByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp := &models.Experiment{
		Name: "lookup-test",
		Variants: []models.Variant{
			{Name: "control", Path: "/lt/a", Weight: 50, IsControl: true},
			{Name: "challenger", Path: "/lt/b", Weight: 50},
		},
	}
	if err := db.CreateExperiment(ctx, exp); err != nil {
		t.Fatalf("CreateExperiment() error = %v", err)
	}

	got, err := db.GetExperimentByID(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetExperimentByID() error = %v", err)
	}
	if got.Name != "lookup-test" {
		t.Errorf("Name = %q, want %q", got.Name, "lookup-test")
	}
	if len(got.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(got.Variants))
	}
	if got.Variants[0].Name != "control" || got.Variants[1].Name != "challenger" {
		t.Errorf("variants out of position order: %q, %q", got.Variants[0].Name, got.Variants[1].Name)
	}

	if _, err := db.GetExperimentByID(ctx, uuid.New()); err != ErrExperimentNotFound {
		t.Errorf("GetExperimentByID(missing) error = %v, want ErrExperimentNotFound", err)
	}
}

func TestListExperiments(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp := &models.Experiment{
		Name: "list-test",
		Variants: []models.Variant{
			{Name: "a", Path: "/ls/a", Weight: 1},
			{Name: "b", Path: "/ls/b", Weight: 1},
		},
	}
	if err := db.CreateExperiment(ctx, exp); err != nil {
		t.Fatalf("CreateExperiment() error = %v", err)
	}

	variantID := exp.Variants[0].ID
	for i := 0; i < 3; i++ {
		if _, err := db.RecordEvent(ctx, EventInput{VariantID: &variantID, Kind: "view"}); err != nil {
			t.Fatalf("RecordEvent() error = %v", err)
		}
	}
	if _, err := db.RecordEvent(ctx, EventInput{VariantID: &variantID, Kind: "conversion"}); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}

	summaries, err := db.ListExperiments(ctx)
	if err != nil {
		t.Fatalf("ListExperiments() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	if summaries[0].VariantCount != 2 {
		t.Errorf("VariantCount = %d, want 2", summaries[0].VariantCount)
	}
	if summaries[0].TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3 (conversions must not count)", summaries[0].TotalViews)
	}
}

func TestUpdateExperimentStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp := &models.Experiment{
		Name:     "status-test",
		Variants: []models.Variant{{Name: "a", Path: "/st/a", Weight: 1}},
	}
	if err := db.CreateExperiment(ctx, exp); err != nil {
		t.Fatalf("CreateExperiment() error = %v", err)
	}

	if err := db.UpdateExperimentStatus(ctx, exp.ID, models.StatusPaused); err != nil {
		t.Fatalf("UpdateExperimentStatus() error = %v", err)
	}

	got, err := db.GetExperimentByID(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetExperimentByID() error = %v", err)
	}
	if got.Status != models.StatusPaused {
		t.Errorf("status = %q, want %q", got.Status, models.StatusPaused)
	}

	if err := db.UpdateExperimentStatus(ctx, uuid.New(), models.StatusPaused); err != ErrExperimentNotFound {
		t.Errorf("UpdateExperimentStatus(missing) error = %v, want ErrExperimentNotFound", err)
	}
}

func TestDeleteExperiment_Cascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	exp := &models.Experiment{
		Name:     "delete-test",
		Variants: []models.Variant{{Name: "a", Path: "/del/a", Weight: 1}},
	}
	if err := db.CreateExperiment(ctx, exp); err != nil {
		t.Fatalf("CreateExperiment() error = %v", err)
	}

	variantID := exp.Variants[0].ID
	if _, err := db.RecordEvent(ctx, EventInput{VariantID: &variantID, Kind: "view"}); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}

	if err := db.DeleteExperiment(ctx, exp.ID); err != nil {
		t.Fatalf("DeleteExperiment() error = %v", err)
	}

	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 0 {
		t.Errorf("events after delete = %d, want 0", count)
	}
}

func TestEnsureExperiments_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	declared := []models.Experiment{{
		Name: "declared-test",
		Variants: []models.Variant{
			{Name: "a", Path: "/dc/a", Weight: 1},
		},
	}}

	if err := db.EnsureExperiments(ctx, declared); err != nil {
		t.Fatalf("EnsureExperiments() first error = %v", err)
	}

	// A second run must leave the existing experiment alone.
	exp, err := db.GetExperimentByName(ctx, "declared-test")
	if err != nil {
		t.Fatalf("GetExperimentByName() error = %v", err)
	}
	if err := db.UpdateExperimentStatus(ctx, exp.ID, models.StatusPaused); err != nil {
		t.Fatalf("UpdateExperimentStatus() error = %v", err)
	}

	if err := db.EnsureExperiments(ctx, declared); err != nil {
		t.Fatalf("EnsureExperiments() second error = %v", err)
	}

	got, err := db.GetExperimentByName(ctx, "declared-test")
	if err != nil {
		t.Fatalf("GetExperimentByName() error = %v", err)
	}
	if got.Status != models.StatusPaused {
		t.Errorf("status = %q, want %q (re-seed must not clobber)", got.Status, models.StatusPaused)
	}
}
