package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"proposal-review-service/internal/usecase/proposal"
)

type ProposalService interface {
	Create(ctx context.Context, in proposal.CreateProposalInput) (*proposal.CreatedProposalDTO, error)
	FindByPublicCode(ctx context.Context, code, securityCode string) (*proposal.PublicProposalDTO, error)
	List(ctx context.Context, in proposal.ListInput) (*proposal.PageDTO, error)
	Get(ctx context.Context, proposalID string) (*proposal.ProposalDTO, error)
	Update(ctx context.Context, proposalID string, in proposal.UpdateProposalInput) (*proposal.ProposalDTO, error)
	UpdateStatus(ctx context.Context, proposalID, status string) (*proposal.ProposalDTO, error)
	Delete(ctx context.Context, proposalID string) error
}

type ProposalHandler struct {
	uc        ProposalService
	maxUpload int64
	log       *slog.Logger
}

func NewProposalHandler(uc ProposalService, maxUploadBytes int64, log *slog.Logger) *ProposalHandler {
	return &ProposalHandler{uc: uc, maxUpload: maxUploadBytes, log: log}
}

var (
	reTemplateFile = regexp.MustCompile(`^files\[([^\]]+)\]$`)
	reExtraMeta    = regexp.MustCompile(`^extraFilesMetadata\[(\d+)\]\[(name|description)\]$`)
)

type tooLargeError struct{ file string }

func (e tooLargeError) Error() string { return fmt.Sprintf("file %s exceeds the upload limit", e.file) }

// uploads holds every file opened for one request so they can be closed together.
type uploads struct {
	docs    []proposal.Upload
	extras  []proposal.ExtraUpload
	closers []io.Closer
}

func (u *uploads) Close() {
	for _, c := range u.closers {
		_ = c.Close()
	}
}

func (h *ProposalHandler) open(fh *multipart.FileHeader) (multipart.File, error) {
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, tooLargeError{file: fh.Filename}
	}
	return fh.Open()
}

func mimeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// readUploads collects files[<templateId>] and extraFiles with their extraFilesMetadata[i][...] entries.
func (h *ProposalHandler) readUploads(form *multipart.Form) (*uploads, error) {
	out := &uploads{}

	keys := make([]string, 0, len(form.File))
	for k := range form.File {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		m := reTemplateFile.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		for _, fh := range form.File[key] {
			f, err := h.open(fh)
			if err != nil {
				out.Close()
				return nil, err
			}
			out.closers = append(out.closers, f)
			out.docs = append(out.docs, proposal.Upload{
				TemplateID: m[1],
				FileName:   fh.Filename,
				MimeType:   mimeOf(fh),
				Content:    f,
			})
		}
	}

	names := map[int]string{}
	descs := map[int]string{}
	for key, vals := range form.Value {
		m := reExtraMeta.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		i, _ := strconv.Atoi(m[1])
		if m[2] == "name" {
			names[i] = vals[0]
		} else {
			descs[i] = vals[0]
		}
	}

	for i, fh := range form.File["extraFiles"] {
		f, err := h.open(fh)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.closers = append(out.closers, f)
		ex := proposal.ExtraUpload{
			Name:     strings.TrimSpace(names[i]),
			FileName: fh.Filename,
			MimeType: mimeOf(fh),
			Content:  f,
		}
		if ex.Name == "" {
			ex.Name = fh.Filename
		}
		if d, ok := descs[i]; ok && strings.TrimSpace(d) != "" {
			ex.Description = &d
		}
		out.extras = append(out.extras, ex)
	}
	return out, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func formPtr(form *multipart.Form, key string) *string {
	if v, ok := formValue(form, key); ok {
		return &v
	}
	return nil
}

func (h *ProposalHandler) uploadError(c echo.Context, err error) error {
	if tl, ok := err.(tooLargeError); ok {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: tl.Error()})
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
}

type createProposalReq struct {
	ActivityID string  `json:"activity_id" validate:"required"`
	FullName   string  `json:"full_name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"max=32"`
	Address    string  `json:"address"`
	Note       *string `json:"note"`
	State      string  `json:"state" validate:"omitempty,proposal_state"`
}

func (h *ProposalHandler) Create(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expected multipart/form-data body"})
	}

	req := createProposalReq{Note: formPtr(form, "note")}
	req.ActivityID, _ = formValue(form, "activity_id")
	req.FullName, _ = formValue(form, "full_name")
	req.Email, _ = formValue(form, "email")
	req.Phone, _ = formValue(form, "phone")
	req.Address, _ = formValue(form, "address")
	req.State, _ = formValue(form, "state")
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	files, err := h.readUploads(form)
	if err != nil {
		return h.uploadError(c, err)
	}
	defer files.Close()

	dto, err := h.uc.Create(c.Request().Context(), proposal.CreateProposalInput{
		ActivityID: req.ActivityID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Note:       req.Note,
		State:      req.State,
		Documents:  files.docs,
		Extras:     files.extras,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type lookupReq struct {
	Code         string `json:"code" validate:"required,proposal_code"`
	SecurityCode string `json:"security_code" validate:"required,len=32"`
}

func (h *ProposalHandler) Lookup(c echo.Context) error {
	var req lookupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.SecurityCode = strings.ToLower(strings.TrimSpace(req.SecurityCode))
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.FindByPublicCode(c.Request().Context(), req.Code, req.SecurityCode)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type listProposalsReq struct {
	PageQuery
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
	Status string `query:"status" validate:"omitempty,proposal_status"`
}

func (h *ProposalHandler) List(c echo.Context) error {
	var req listProposalsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	page, err := h.uc.List(c.Request().Context(), proposal.ListInput{
		Page:   req.Page,
		Limit:  req.Limit,
		Order:  req.Order,
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProposalHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type updateProposalReq struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
	State    *string `json:"state" validate:"omitempty,proposal_state"`
	Respond  *string `json:"respond"`
}

// Update accepts JSON for detail edits, or multipart when documents are replaced.
func (h *ProposalHandler) Update(c echo.Context) error {
	var (
		req   updateProposalReq
		files = &uploads{}
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		}
		req = updateProposalReq{
			FullName: formPtr(form, "full_name"),
			Email:    formPtr(form, "email"),
			Phone:    formPtr(form, "phone"),
			Address:  formPtr(form, "address"),
			Note:     formPtr(form, "note"),
			State:    formPtr(form, "state"),
			Respond:  formPtr(form, "respond"),
		}
		if files, err = h.readUploads(form); err != nil {
			return h.uploadError(c, err)
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	defer files.Close()

	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.Update(c.Request().Context(), c.Param("id"), proposal.UpdateProposalInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Note:      req.Note,
		State:     req.State,
		Respond:   req.Respond,
		Documents: files.docs,
		Extras:    files.extras,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required,proposal_status"`
}

func (h *ProposalHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	dto, err := h.uc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ProposalHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
