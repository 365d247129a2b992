package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/storage"
	"github.com/Veraticus/loansiya/internal/testutil"
)

func newDocumentService(t *testing.T) (*DocumentService, *testutil.TestStore) {
	t.Helper()
	ts := testutil.SetupTestStore(t)
	stager := NewStager(t.TempDir(), 1<<20, testLogger)
	return NewDocumentService(ts.Clients, stager, fixedClock(), testLogger), ts
}

func TestDocumentService_SaveJSON(t *testing.T) {
	svc, ts := newDocumentService(t)

	receipt, err := svc.SaveJSON(context.Background(), "CID-1001", "application", []byte(`{"amount": 250000, "term": 24}`))
	require.NoError(t, err)

	assert.Equal(t, "clients/CID-1001/2026-10-18/loan-application.json", receipt.Path)
	assert.Equal(t, "loan-application.json uploaded successfully for CID-1001", receipt.Message)
	assert.JSONEq(t, `{"amount": 250000, "term": 24}`, string(ts.MustRead(ts.Clients, receipt.Path)))
}

func TestDocumentService_SaveJSONEmptyBody(t *testing.T) {
	svc, ts := newDocumentService(t)

	receipt, err := svc.SaveJSON(context.Background(), "CID-1001", "agreement", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(ts.MustRead(ts.Clients, receipt.Path)))
}

func TestDocumentService_SaveJSONOverwritesSameDay(t *testing.T) {
	svc, ts := newDocumentService(t)
	ctx := context.Background()

	_, err := svc.SaveJSON(ctx, "CID-1001", "agreement", []byte(`{"v":1}`))
	require.NoError(t, err)
	receipt, err := svc.SaveJSON(ctx, "CID-1001", "agreement", []byte(`{"v":2}`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"v":2}`, string(ts.MustRead(ts.Clients, receipt.Path)))
}

func TestDocumentService_SaveJSONRejects(t *testing.T) {
	tests := []struct {
		name        string
		cid         string
		fileType    string
		body        string
		wantMessage string
	}{
		{name: "missing cid", fileType: "application", wantMessage: "Missing clientId or fileType"},
		{name: "missing type", cid: "CID-1001", wantMessage: "Missing clientId or fileType"},
		{name: "unknown type", cid: "CID-1001", fileType: "invoice", wantMessage: "Invalid fileType. Must be application or agreement."},
		{name: "case sensitive type", cid: "CID-1001", fileType: "Application", wantMessage: "Invalid fileType. Must be application or agreement."},
		{name: "invalid json", cid: "CID-1001", fileType: "application", body: `{"amount":`},
		{name: "json string", cid: "CID-1001", fileType: "application", body: `"approved"`, wantMessage: "Invalid JSON body"},
		{name: "json number", cid: "CID-1001", fileType: "agreement", body: `42`, wantMessage: "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ts := newDocumentService(t)

			_, err := svc.SaveJSON(context.Background(), tt.cid, tt.fileType, []byte(tt.body))
			require.ErrorIs(t, err, common.ErrValidation)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, common.UserMessage(err, ""))
			}

			for _, docType := range []string{"application", "agreement"} {
				exists, existsErr := ts.Clients.Exists(context.Background(), "clients/CID-1001/2026-10-18/loan-"+docType+".json")
				require.NoError(t, existsErr)
				assert.False(t, exists)
			}
		})
	}
}

func TestDocumentService_Upload(t *testing.T) {
	svc, ts := newDocumentService(t)
	ctx := context.Background()

	staged, err := svc.Stage(strings.NewReader("%PDF-1.7 payslip"), "march.pdf")
	require.NoError(t, err)
	defer staged.Release()

	receipt, err := svc.Upload(ctx, UploadRequest{CID: "CID-1001", FileType: "Payslip", File: staged})
	require.NoError(t, err)

	assert.True(t, receipt.Success)
	assert.Equal(t, "documents/CID-1001/2026-10-18/payslip.pdf", receipt.UploadedTo)
	assert.Equal(t, "%PDF-1.7 payslip", string(ts.MustRead(ts.Clients, receipt.UploadedTo)))

	u, err := url.Parse(receipt.FileURL)
	require.NoError(t, err)
	obj, err := ts.Store.OpenSigned(ctx, testutil.ClientBucket, receipt.UploadedTo, u.Query().Get("expires"), u.Query().Get("signature"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, "no-cache", obj.CacheControl)
}

func TestDocumentService_UploadDefaults(t *testing.T) {
	svc, ts := newDocumentService(t)

	staged, err := svc.Stage(strings.NewReader("raw bytes"), "scan.unknownext")
	require.NoError(t, err)
	defer staged.Release()

	receipt, err := svc.Upload(context.Background(), UploadRequest{File: staged})
	require.NoError(t, err)
	assert.Equal(t, "documents/UnknownCID/2026-10-18/document.unknownext", receipt.UploadedTo)

	var exists bool
	exists, err = ts.Clients.Exists(context.Background(), receipt.UploadedTo)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentService_UploadWithoutFile(t *testing.T) {
	svc, _ := newDocumentService(t)

	_, err := svc.Upload(context.Background(), UploadRequest{CID: "CID-1001"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, storage.ContentTypeJSON, contentTypeFor("application.json"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob"))
}
