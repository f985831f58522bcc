package repository

import (
	"testing"

	"github.com/google/uuid"

	"stockplot/internal/models"
)

func TestSyncHistoryRepository_Start_CreatesStartedEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncHistoryRepository(db)

	runID := uuid.NewString()
	id, err := repo.Start(runID)
	if err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}

	entry, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if entry == nil {
		t.Fatal("GetByID() = nil, want entry")
	}
	if entry.Status != models.SyncStatusStarted {
		t.Errorf("Status = %q, want %q", entry.Status, models.SyncStatusStarted)
	}
	if entry.RunID != runID {
		t.Errorf("RunID = %q, want %q", entry.RunID, runID)
	}
	if entry.CompletedAt != nil {
		t.Error("CompletedAt should be nil for a started sync")
	}
}

func TestSyncHistoryRepository_Complete_RecordsCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncHistoryRepository(db)

	id, err := repo.Start(uuid.NewString())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := repo.Complete(id, 12, 3); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	entry, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if entry.Status != models.SyncStatusSuccess {
		t.Errorf("Status = %q, want %q", entry.Status, models.SyncStatusSuccess)
	}
	if entry.TransactionsSynced != 12 || entry.ProductsSynced != 3 {
		t.Errorf("synced counts = (%d, %d), want (12, 3)", entry.TransactionsSynced, entry.ProductsSynced)
	}
	if entry.CompletedAt == nil {
		t.Error("CompletedAt should be set after Complete()")
	}
}

func TestSyncHistoryRepository_Fail_RecordsErrorMessage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncHistoryRepository(db)

	id, err := repo.Start(uuid.NewString())
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := repo.Fail(id, "authentication failed"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	entry, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if entry.Status != models.SyncStatusError {
		t.Errorf("Status = %q, want %q", entry.Status, models.SyncStatusError)
	}
	if entry.ErrorMessage != "authentication failed" {
		t.Errorf("ErrorMessage = %q, want %q", entry.ErrorMessage, "authentication failed")
	}
}

func TestSyncHistoryRepository_List_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncHistoryRepository(db)

	var last int64
	for i := 0; i < 3; i++ {
		id, err := repo.Start(uuid.NewString())
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		last = id
	}

	entries, err := repo.List(10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != last {
		t.Errorf("List() first entry id = %d, want %d (newest)", entries[0].ID, last)
	}
}
