package adapter

import (
	"context"
	"io"
	"log/slog"

	"github.com/amishk599/internscout/internal/browser"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLoader serves canned HTML and records the requests it received.
type fakeLoader struct {
	HTML     string
	Err      error
	Requests []browser.PageRequest
}

func (f *fakeLoader) Load(_ context.Context, req browser.PageRequest) (string, error) {
	f.Requests = append(f.Requests, req)
	return f.HTML, f.Err
}
