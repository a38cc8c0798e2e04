package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"proposal-review-service/internal/domain/errs"
	domain "proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/usecase/proposal"
)

type formFile struct {
	field, name, mime, body string
}

func multipartBody(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.mime != "" {
			h.Set("Content-Type", f.mime)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(part, f.body)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func proposalEcho(uc ProposalService, maxUpload int64) *echo.Echo {
	e := newEchoWithValidator()
	h := NewProposalHandler(uc, maxUpload, discardLog())
	e.POST("/proposals", h.Create)
	e.POST("/proposals/lookup", h.Lookup)
	e.GET("/proposals", h.List)
	e.GET("/proposals/:id", h.Get)
	e.PUT("/proposals/:id", h.Update)
	e.PATCH("/proposals/:id/status", h.UpdateStatus)
	e.DELETE("/proposals/:id", h.Delete)
	return e
}

var validFields = map[string]string{
	"activity_id": "act-1",
	"full_name":   "Ann Lee",
	"email":       "ann@example.org",
	"phone":       "555-0100",
}

func TestCreateProposal_Multipart(t *testing.T) {
	var got proposal.CreateProposalInput
	contents := map[string]string{}
	uc := &fakeProposals{
		CreateFn: func(ctx context.Context, in proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error) {
			got = in
			for _, d := range in.Documents {
				b, _ := io.ReadAll(d.Content)
				contents[d.TemplateID+"/"+d.FileName] = string(b)
			}
			return &proposal.CreatedProposalDTO{
				ProposalDTO:  proposal.ProposalDTO{ID: "p1", Code: "ABCDEFGH23", Status: "PENDING"},
				SecurityCode: strings.Repeat("a", 32),
			}, nil
		},
	}

	fields := map[string]string{
		"extraFilesMetadata[0][name]":        "Portfolio",
		"extraFilesMetadata[0][description]": "older work",
	}
	for k, v := range validFields {
		fields[k] = v
	}
	body, ct := multipartBody(t, fields, []formFile{
		{"files[t1]", "cv.pdf", "application/pdf", "cv-bytes"},
		{"files[t2]", "id-front.png", "image/png", "front"},
		{"files[t2]", "id-back.png", "image/png", "back"},
		{"extraFiles", "portfolio.zip", "", "zip"},
		{"extraFiles", "letter.txt", "text/plain", "hi"},
	})
	req := httptest.NewRequest(http.MethodPost, "/proposals", body)
	req.Header.Set(echo.HeaderContentType, ct)

	rec := serve(proposalEcho(uc, 1<<20), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}

	if got.ActivityID != "act-1" || got.FullName != "Ann Lee" || got.Email != "ann@example.org" || got.Phone != "555-0100" {
		t.Fatalf("details not mapped: %+v", got)
	}
	if got.Note != nil {
		t.Fatalf("absent note must stay nil")
	}
	if len(got.Documents) != 3 {
		t.Fatalf("documents = %d, want 3", len(got.Documents))
	}
	if contents["t1/cv.pdf"] != "cv-bytes" || contents["t2/id-back.png"] != "back" {
		t.Fatalf("contents = %v", contents)
	}
	if got.Documents[0].MimeType != "application/pdf" {
		t.Fatalf("mime = %q", got.Documents[0].MimeType)
	}

	if len(got.Extras) != 2 {
		t.Fatalf("extras = %d, want 2", len(got.Extras))
	}
	first, second := got.Extras[0], got.Extras[1]
	if first.Name != "Portfolio" || first.Description == nil || *first.Description != "older work" {
		t.Fatalf("extra metadata not applied: %+v", first)
	}
	if first.MimeType != "application/octet-stream" {
		t.Fatalf("default mime = %q", first.MimeType)
	}
	if second.Name != "letter.txt" || second.Description != nil {
		t.Fatalf("extra without metadata: %+v", second)
	}

	var dto proposal.CreatedProposalDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatal(err)
	}
	if dto.SecurityCode == "" || dto.Code != "ABCDEFGH23" {
		t.Fatalf("response = %+v", dto)
	}
}

func TestCreateProposal_ValidationFailure(t *testing.T) {
	uc := &fakeProposals{CreateFn: func(context.Context, proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error) {
		t.Fatal("usecase must not be called")
		return nil, nil
	}}
	body, ct := multipartBody(t, map[string]string{"email": "not-an-email", "state": "ARCHIVED"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/proposals", body)
	req.Header.Set(echo.HeaderContentType, ct)

	rec := serve(proposalEcho(uc, 0), req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	er := decodeError(t, rec)
	for _, field := range []string{"activity_id", "full_name", "email", "state"} {
		found := false
		for _, d := range er.Details {
			found = found || d.Field == field
		}
		if !found {
			t.Fatalf("missing detail for %s: %+v", field, er.Details)
		}
	}
}

func TestCreateProposal_FileTooLarge(t *testing.T) {
	uc := &fakeProposals{CreateFn: func(context.Context, proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error) {
		t.Fatal("usecase must not be called")
		return nil, nil
	}}
	body, ct := multipartBody(t, validFields, []formFile{
		{"files[t1]", "small.pdf", "application/pdf", "ok"},
		{"files[t2]", "huge.pdf", "application/pdf", strings.Repeat("x", 64)},
	})
	req := httptest.NewRequest(http.MethodPost, "/proposals", body)
	req.Header.Set(echo.HeaderContentType, ct)

	rec := serve(proposalEcho(uc, 32), req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if er := decodeError(t, rec); !strings.Contains(er.Error, "huge.pdf") {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestCreateProposal_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/proposals", mustJSON(validFields))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(proposalEcho(&fakeProposals{}, 0), req); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateProposal_UsecaseErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.Validationf("invalid number of files for document template %s", "t1"), http.StatusBadRequest},
		{errs.NotFound("activity not found"), http.StatusNotFound},
		{domain.ErrCodeExhausted, http.StatusConflict},
	}
	for _, tc := range tests {
		uc := &fakeProposals{CreateFn: func(context.Context, proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error) {
			return nil, tc.err
		}}
		body, ct := multipartBody(t, validFields, nil)
		req := httptest.NewRequest(http.MethodPost, "/proposals", body)
		req.Header.Set(echo.HeaderContentType, ct)

		rec := serve(proposalEcho(uc, 0), req)
		if rec.Code != tc.want {
			t.Fatalf("%v => %d, want %d", tc.err, rec.Code, tc.want)
		}
		if er := decodeError(t, rec); er.Error != errs.Message(tc.err) {
			t.Fatalf("error = %q", er.Error)
		}
	}
}

func TestLookup(t *testing.T) {
	var code, sc string
	uc := &fakeProposals{FindFn: func(_ context.Context, c, s string) (*proposal.PublicProposalDTO, error) {
		code, sc = c, s
		if s != strings.Repeat("b", 32) {
			return nil, domain.ErrNotFound
		}
		return &proposal.PublicProposalDTO{ProposalDTO: proposal.ProposalDTO{Code: c, Status: "REJECTED"}}, nil
	}}
	e := proposalEcho(uc, 0)

	req := httptest.NewRequest(http.MethodPost, "/proposals/lookup", mustJSON(map[string]string{
		"code":          " abcdefgh23 ",
		"security_code": strings.Repeat("B", 32),
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if code != "ABCDEFGH23" || sc != strings.Repeat("b", 32) {
		t.Fatalf("not normalized: %q %q", code, sc)
	}

	req = httptest.NewRequest(http.MethodPost, "/proposals/lookup", mustJSON(map[string]string{
		"code":          "ABCDEFGH23",
		"security_code": strings.Repeat("c", 32),
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(e, req); rec.Code != http.StatusNotFound {
		t.Fatalf("wrong security code => %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/proposals/lookup", mustJSON(map[string]string{"code": "short"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(e, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid lookup => %d, want 400", rec.Code)
	}
}

func TestListProposals_Query(t *testing.T) {
	var got proposal.ListInput
	uc := &fakeProposals{ListFn: func(_ context.Context, in proposal.ListInput) (*proposal.PageDTO, error) {
		got = in
		return &proposal.PageDTO{Data: []proposal.ProposalDTO{}, Page: in.Page, Limit: in.Limit}, nil
	}}
	e := proposalEcho(uc, 0)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/proposals?page=2&limit=5&order=asc&status=PENDING", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	want := proposal.ListInput{Page: 2, Limit: 5, Order: "asc", Status: "PENDING"}
	if got != want {
		t.Fatalf("input = %+v, want %+v", got, want)
	}

	for _, q := range []string{"?status=DONE", "?order=sideways", "?limit=500", "?page=x"} {
		if rec := serve(e, httptest.NewRequest(http.MethodGet, "/proposals"+q, nil)); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => %d, want 400", q, rec.Code)
		}
	}
}

func TestGetProposal_NotFound(t *testing.T) {
	uc := &fakeProposals{GetFn: func(_ context.Context, id string) (*proposal.ProposalDTO, error) {
		if id != "p1" {
			return nil, domain.ErrNotFound
		}
		return &proposal.ProposalDTO{ID: id}, nil
	}}
	e := proposalEcho(uc, 0)
	if rec := serve(e, httptest.NewRequest(http.MethodGet, "/proposals/p1", nil)); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/proposals/nope", nil))
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Error != "proposal not found" {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUpdateProposal_JSONAndMultipart(t *testing.T) {
	var got proposal.UpdateProposalInput
	var gotID string
	uc := &fakeProposals{UpdateFn: func(_ context.Context, id string, in proposal.UpdateProposalInput) (*proposal.ProposalDTO, error) {
		gotID, got = id, in
		return &proposal.ProposalDTO{ID: id}, nil
	}}
	e := proposalEcho(uc, 0)

	req := httptest.NewRequest(http.MethodPut, "/proposals/p1", mustJSON(map[string]any{"full_name": "New Name", "respond": "thanks"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(e, req); rec.Code != http.StatusOK {
		t.Fatalf("json update => %d, body=%s", rec.Code, rec.Body.String())
	}
	if gotID != "p1" || got.FullName == nil || *got.FullName != "New Name" || got.Respond == nil || got.Email != nil {
		t.Fatalf("json input = %+v", got)
	}

	body, ct := multipartBody(t, map[string]string{"address": "1 Main St"}, []formFile{{"files[t1]", "cv2.pdf", "application/pdf", "v2"}})
	req = httptest.NewRequest(http.MethodPut, "/proposals/p1", body)
	req.Header.Set(echo.HeaderContentType, ct)
	if rec := serve(e, req); rec.Code != http.StatusOK {
		t.Fatalf("multipart update => %d, body=%s", rec.Code, rec.Body.String())
	}
	if got.Address == nil || *got.Address != "1 Main St" || got.FullName != nil {
		t.Fatalf("multipart details = %+v", got)
	}
	if len(got.Documents) != 1 || got.Documents[0].TemplateID != "t1" {
		t.Fatalf("multipart documents = %+v", got.Documents)
	}

	req = httptest.NewRequest(http.MethodPut, "/proposals/p1", mustJSON(map[string]any{"email": "bad"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(e, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid email => %d", rec.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	uc := &fakeProposals{UpdateStatusFn: func(_ context.Context, id, status string) (*proposal.ProposalDTO, error) {
		if status == "REJECTED" {
			return nil, domain.ErrTerminalStatus
		}
		return &proposal.ProposalDTO{ID: id, Status: status}, nil
	}}
	e := proposalEcho(uc, 0)

	tests := []struct {
		body map[string]string
		want int
	}{
		{map[string]string{"status": "AIAPPROVED"}, http.StatusOK},
		{map[string]string{"status": "REJECTED"}, http.StatusBadRequest},
		{map[string]string{"status": "archived"}, http.StatusBadRequest},
		{map[string]string{}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPatch, "/proposals/p1/status", mustJSON(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if rec := serve(e, req); rec.Code != tc.want {
			t.Fatalf("%v => %d, want %d", tc.body, rec.Code, tc.want)
		}
	}
}

func TestDeleteProposal(t *testing.T) {
	deleted := ""
	uc := &fakeProposals{DeleteFn: func(_ context.Context, id string) error {
		if id == "missing" {
			return domain.ErrNotFound
		}
		deleted = id
		return nil
	}}
	e := proposalEcho(uc, 0)
	if rec := serve(e, httptest.NewRequest(http.MethodDelete, "/proposals/p1", nil)); rec.Code != http.StatusNoContent || deleted != "p1" {
		t.Fatalf("delete => %d (%q)", rec.Code, deleted)
	}
	if rec := serve(e, httptest.NewRequest(http.MethodDelete, "/proposals/missing", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing => %d", rec.Code)
	}
}
