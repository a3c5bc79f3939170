package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractDriveFileID(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		want   string
		wantOK bool
	}{
		{name: "view link", link: "https://drive.google.com/file/d/1AbC-xyz_9/view?usp=sharing", want: "1AbC-xyz_9", wantOK: true},
		{name: "trailing id", link: "https://drive.google.com/file/d/abc123", want: "abc123", wantOK: true},
		{name: "query right after id", link: "https://drive.google.com/file/d/abc123?usp=drive_link", want: "abc123", wantOK: true},
		{name: "open link", link: "https://drive.google.com/open?id=abc", wantOK: false},
		{name: "not a url", link: "resume.pdf", wantOK: false},
		{name: "empty", link: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDriveFileID(tt.link)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newDriveServer(t *testing.T, files map[string][]byte) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("export") != "download" {
			http.Error(w, "bad export", http.StatusBadRequest)
			return
		}
		data, ok := files[r.URL.Query().Get("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDriveResumeFetcher_Fetch(t *testing.T) {
	srv, _ := newDriveServer(t, map[string][]byte{"abc": []byte("%PDF-1.4 data")})
	fetcher := NewDriveResumeFetcher(srv.URL+"/uc?id=%s&export=download", 5*time.Second, 1024)

	data, err := fetcher.Fetch(context.Background(), "https://drive.google.com/file/d/abc/view")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 data", string(data))

	_, err = fetcher.Fetch(context.Background(), "https://drive.google.com/file/d/missing/view")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = fetcher.Fetch(context.Background(), "https://example.com/resume.pdf")
	require.ErrorIs(t, err, ErrInvalidDriveURL)
}

func TestDriveResumeFetcher_SizeLimit(t *testing.T) {
	srv, _ := newDriveServer(t, map[string][]byte{"big": make([]byte, 2048)})
	fetcher := NewDriveResumeFetcher(srv.URL+"/uc?id=%s&export=download", 5*time.Second, 1024)

	_, err := fetcher.Fetch(context.Background(), "https://drive.google.com/file/d/big/view")
	require.ErrorIs(t, err, ErrResumeTooLarge)
}

func TestResumeProcessor_ProcessCandidates(t *testing.T) {
	srv, hits := newDriveServer(t, map[string][]byte{
		"good":    buildTestPDF("Ann builds distributed systems"),
		"notapdf": []byte("<html>quota exceeded</html>"),
	})
	fetcher := NewDriveResumeFetcher(srv.URL+"/uc?id=%s&export=download", 5*time.Second, 1<<20)
	processor := NewResumeProcessor(fetcher, NewPDFParserService(zap.NewNop()), zap.NewNop())

	entries := []RosterEntry{
		{Name: "Ann", Email: "ann@example.com", ResumeLink: "https://drive.google.com/file/d/good/view"},
		{Name: "Bob", Email: "bob@example.com", ResumeLink: "https://example.com/bob.pdf"},
		{Name: "Cid", Email: "cid@example.com", ResumeLink: "https://drive.google.com/file/d/notapdf/view"},
		{Name: "Dee", Email: "dee@example.com", ResumeLink: "https://drive.google.com/file/d/gone/view"},
	}

	got := processor.ProcessCandidates(context.Background(), entries)
	require.Len(t, got, 4)

	assert.Equal(t, "Ann", got[0].Name)
	assert.Contains(t, got[0].ResumeText, "Ann builds distributed systems")
	assert.Empty(t, got[0].Error)

	for _, c := range got[1:] {
		assert.Empty(t, c.ResumeText, c.Name)
		assert.NotEmpty(t, c.Error, c.Name)
	}
	assert.Equal(t, "bob@example.com", got[1].Email)
	assert.Equal(t, 3, CountFailed(got))
	// Bob's link never reaches the network
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestResumeProcessor_CancelledContextKeepsRows(t *testing.T) {
	srv, hits := newDriveServer(t, map[string][]byte{})
	fetcher := NewDriveResumeFetcher(srv.URL+"/uc?id=%s&export=download", 5*time.Second, 1024)
	processor := NewResumeProcessor(fetcher, NewPDFParserService(zap.NewNop()), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := processor.ProcessCandidates(ctx, []RosterEntry{
		{Name: "Ann", Email: "ann@example.com", ResumeLink: "https://drive.google.com/file/d/a/view"},
		{Name: "Bob", Email: "bob@example.com", ResumeLink: "https://drive.google.com/file/d/b/view"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[1].Name)
	assert.Equal(t, 2, CountFailed(got))
	assert.Zero(t, atomic.LoadInt32(hits))
}
