package adapter

import (
	"context"
	"testing"
)

const remoteOKPage = `<html><body><table>
<tr class="job" data-url="/remote-jobs/remote-data-analyst-epsilon-1093">
  <td><h2>Data Analyst</h2>
  <h3>Epsilon</h3></td>
</tr>
<tr class="job placeholder" data-url="/remote-jobs/placeholder">
  <td>Loading</td>
</tr>
<tr class="job">
  <td><h2>No link</h2></td>
</tr>
<tr class="job" data-url="/remote-jobs/remote-analytics-engineer-zeta-1094">
  <td><h2>Analytics Engineer</h2>
  <h3>Zeta</h3></td>
</tr>
</table></body></html>`

func TestRemoteOK_Scrape(t *testing.T) {
	loader := &fakeLoader{HTML: remoteOKPage}
	a := NewRemoteOKAdapter(loader, 25, discardLogger())

	records, err := a.Scrape(context.Background(), "data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].URL != "https://remoteok.com/remote-jobs/remote-data-analyst-epsilon-1093" {
		t.Errorf("URL = %q", records[0].URL)
	}
	if records[1].RawText != "Analytics Engineer\nZeta" {
		t.Errorf("RawText = %q", records[1].RawText)
	}
	if loader.Requests[0].URL != "https://remoteok.com/remote-data-jobs" {
		t.Errorf("URL = %q", loader.Requests[0].URL)
	}
}

func TestRemoteOK_MultiWordQueryBecomesSlug(t *testing.T) {
	loader := &fakeLoader{HTML: remoteOKPage}
	a := NewRemoteOKAdapter(loader, 25, discardLogger())

	if _, err := a.Scrape(context.Background(), "Data  Science"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.Requests[0].URL != "https://remoteok.com/remote-data-science-jobs" {
		t.Errorf("URL = %q", loader.Requests[0].URL)
	}
}
