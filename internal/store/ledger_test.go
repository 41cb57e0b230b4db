package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amishk599/internscout/internal/model"
)

func readIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
	return ids
}

func TestFileLedger_MissingFileIsEmpty(t *testing.T) {
	l := NewFileLedger(filepath.Join(t.TempDir(), "sent_jobs.json"))

	ids, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Load = %v, want empty", ids)
	}
}

func TestFileLedger_UnparsableFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_jobs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	ids, err := NewFileLedger(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Load = %v, want empty", ids)
	}
}

func TestFileLedger_AppendIsUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_jobs.json")
	if err := os.WriteFile(path, []byte(`["u1","u0"]`), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewFileLedger(path)

	if err := l.Append([]string{"u2", "u1", "u2"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got := readIDs(t, path)
	want := []string{"u1", "u0", "u2"}
	if len(got) != len(want) {
		t.Fatalf("ledger = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ledger[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileLedger_AppendEmptyCreatesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_jobs.json")
	if err := NewFileLedger(path).Append(nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("ledger file = %q, want []", data)
	}
}

func TestReadOnlyLedger_DropsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_jobs.json")
	inner := NewFileLedger(path)
	if err := inner.Append([]string{"u1"}); err != nil {
		t.Fatal(err)
	}

	ro := NewReadOnlyLedger(inner)
	if err := ro.Append([]string{"u2"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	ids, err := ro.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ids) != 1 || ids[0] != "u1" {
		t.Errorf("Load = %v, want [u1]", ids)
	}
}

func TestSnapshotFile_WritesExactRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped_jobs_raw.json")
	records := []model.RawRecord{
		{RawText: "Data Analyst\nAcme", URL: "https://example.com/1"},
		{RawText: "ML Intern\nBeta", URL: "https://example.com/2"},
	}

	if err := NewSnapshotFile(path).Write(records); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(got) != 2 || got[1].URL != "https://example.com/2" || got[0].RawText != "Data Analyst\nAcme" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestSnapshotFile_EmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped_jobs_raw.json")
	if err := NewSnapshotFile(path).Write(nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("snapshot = %q, want []", data)
	}
}

func TestAcquireRunLock_Exclusive(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "sent_jobs.json")

	lock, err := AcquireRunLock(ledgerPath)
	if err != nil {
		t.Fatalf("first AcquireRunLock: %v", err)
	}

	_, err = AcquireRunLock(ledgerPath)
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("second AcquireRunLock err = %v, want ErrConfiguration", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := AcquireRunLock(ledgerPath)
	if err != nil {
		t.Fatalf("AcquireRunLock after release: %v", err)
	}
	again.Release()
}
