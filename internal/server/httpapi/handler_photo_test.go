package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
)

func testPhoto() *models.Photo {
	return &models.Photo{
		ID:               3,
		Filename:         "20250601_120000_a1b2c3d4e5f60718.jpg",
		OriginalFilename: "field.jpg",
		FilePath:         "20250601_120000_a1b2c3d4e5f60718.jpg",
		FileSize:         4,
		MimeType:         "image/jpeg",
		UploadedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// multipartUpload builds a multipart request body with a file part and an
// optional metadata part.
func multipartUpload(t *testing.T, filename, contentType string, data []byte, metadata string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart error: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing file part: %v", err)
	}

	if metadata != "" {
		if err := mw.WriteField("metadata", metadata); err != nil {
			t.Fatalf("writing metadata part: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, s *HTTPServer, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandlePhotoUpload_Success(t *testing.T) {
	fp := &fakePhotoSvc{saveOut: testPhoto()}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	body, ct := multipartUpload(t, "field.jpg", "image/jpeg", []byte("abcd"), `{"camera":"back"}`)
	rec := doUpload(t, s, bearerFor(t, 7), body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if fp.gotSave.filename != "field.jpg" || fp.gotSave.contentType != "image/jpeg" {
		t.Fatalf("unexpected save args: %+v", fp.gotSave)
	}
	if string(fp.gotSave.data) != "abcd" {
		t.Fatalf("file bytes mangled: %q", fp.gotSave.data)
	}
	if fp.gotSave.metadata["camera"] != "back" {
		t.Fatalf("metadata not parsed: %+v", fp.gotSave.metadata)
	}

	var resp models.PhotoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != 3 || resp.FileSize != 4 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlePhotoUpload_ValidationRejected(t *testing.T) {
	fp := &fakePhotoSvc{saveErr: fmt.Errorf("%w: file type not allowed", common.ErrorValidation)}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	body, ct := multipartUpload(t, "notes.txt", "text/plain", []byte("hello"), "")
	rec := doUpload(t, s, bearerFor(t, 7), body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandlePhotoUpload_MissingFile(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, &fakePhotoSvc{}, &fakeCollectionSvc{}, &fakeSessionSvc{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("metadata", "{}"); err != nil {
		t.Fatalf("WriteField error: %v", err)
	}
	mw.Close()

	rec := doUpload(t, s, bearerFor(t, 7), &buf, mw.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandlePhotoUpload_BadMetadata(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, &fakePhotoSvc{}, &fakeCollectionSvc{}, &fakeSessionSvc{})

	body, ct := multipartUpload(t, "field.jpg", "image/jpeg", []byte("abcd"), "{not json")
	rec := doUpload(t, s, bearerFor(t, 7), body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandlePhotoUpload_RequiresAuth(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, &fakePhotoSvc{}, &fakeCollectionSvc{}, &fakeSessionSvc{})

	body, ct := multipartUpload(t, "field.jpg", "image/jpeg", []byte("abcd"), "")
	req := httptest.NewRequest("POST", "/api/photos", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestHandlePhotoGet(t *testing.T) {
	fp := &fakePhotoSvc{byIDOut: testPhoto()}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	rec := doRequest(t, s, "GET", "/api/photos/3", bearerFor(t, 7), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.PhotoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != 3 || resp.MimeType != "image/jpeg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlePhotoGet_NotFound(t *testing.T) {
	fp := &fakePhotoSvc{byIDErr: common.ErrorNotFound}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	rec := doRequest(t, s, "GET", "/api/photos/99", bearerFor(t, 7), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestHandlePhotoGet_BadID(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, &fakePhotoSvc{}, &fakeCollectionSvc{}, &fakeSessionSvc{})

	rec := doRequest(t, s, "GET", "/api/photos/abc", bearerFor(t, 7), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandlePhotoFile_StreamsBytes(t *testing.T) {
	fp := &fakePhotoSvc{byIDOut: testPhoto(), openData: []byte("abcd")}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	rec := doRequest(t, s, "GET", "/api/photos/3/file", bearerFor(t, 7), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("want stored MIME type, got %q", got)
	}
	if rec.Body.String() != "abcd" {
		t.Fatalf("unexpected bytes: %q", rec.Body.String())
	}
}

func TestHandlePhotoFile_OpenError(t *testing.T) {
	fp := &fakePhotoSvc{byIDOut: testPhoto(), openErr: io.ErrUnexpectedEOF}
	s, _, _ := newTestServer(t, &fakeAuthSvc{}, fp, &fakeCollectionSvc{}, &fakeSessionSvc{})

	rec := doRequest(t, s, "GET", "/api/photos/3/file", bearerFor(t, 7), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
}
