package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/store"
)

// fakeMessenger fails for the URLs listed in fail.
type fakeMessenger struct {
	fail map[string]bool
	sent []string
}

func (f *fakeMessenger) Send(_ context.Context, o model.Opportunity) error {
	f.sent = append(f.sent, o.ID)
	if f.fail[o.URL] {
		return errors.New("delivery failed")
	}
	return nil
}

type failingLedger struct{}

func (failingLedger) Load() ([]string, error) { return []string{}, nil }
func (failingLedger) Append([]string) error   { return errors.New("disk full") }

func TestNotify_AppendsEveryAttemptedID(t *testing.T) {
	ledger := store.NewFileLedger(filepath.Join(t.TempDir(), "sent_jobs.json"))
	if err := ledger.Append([]string{"old"}); err != nil {
		t.Fatal(err)
	}

	a, b, c := sampleOpp("a", "A"), sampleOpp("b", "B"), sampleOpp("c", "C")
	m := &fakeMessenger{fail: map[string]bool{b.URL: true}}
	n := New(m, ledger, 0, discardLogger())

	ids, err := n.Notify(context.Background(), []model.Opportunity{a, b, c})
	if err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if len(m.sent) != 3 {
		t.Errorf("sent %d messages, want 3 (failure must not block the rest)", len(m.sent))
	}
	if len(ids) != 3 {
		t.Errorf("attempted ids = %v", ids)
	}

	got, _ := ledger.Load()
	want := []string{"old", a.ID, b.ID, c.ID}
	if len(got) != len(want) {
		t.Fatalf("ledger = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ledger[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotify_UnconfiguredTelegramStillMarksSent(t *testing.T) {
	ledger := store.NewFileLedger(filepath.Join(t.TempDir(), "sent_jobs.json"))
	m := NewTelegramMessenger("", "", "", nil, discardLogger())
	o := sampleOpp("x", "X")

	if _, err := New(m, ledger, 0, discardLogger()).Notify(context.Background(), []model.Opportunity{o}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	got, _ := ledger.Load()
	if len(got) != 1 || got[0] != o.ID {
		t.Errorf("ledger = %v, want [%s]", got, o.ID)
	}
}

func TestNotify_LedgerFailureIsReturned(t *testing.T) {
	n := New(&fakeMessenger{}, failingLedger{}, 0, discardLogger())
	if _, err := n.Notify(context.Background(), []model.Opportunity{sampleOpp("a", "A")}); err == nil {
		t.Fatal("expected ledger error")
	}
}

func TestSendTestMessage(t *testing.T) {
	m := &fakeMessenger{}
	if err := SendTestMessage(context.Background(), m); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if len(m.sent) != 1 {
		t.Errorf("sent %d, want 1", len(m.sent))
	}
}
