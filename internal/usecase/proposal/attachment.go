package proposal

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"proposal-review-service/internal/domain/errs"
	domain "proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/storage/filestore"
)

type AttachmentDTO struct {
	Name     string
	Mimetype string
	Body     io.ReadCloser
}

// OpenAttachment opens a file recorded on one of the proposal documents.
// The caller closes Body.
func (u *Usecase) OpenAttachment(ctx context.Context, path string) (*AttachmentDTO, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errs.Validation("path is required")
	}
	if filepath.Clean(path) != path || path == ".." || strings.HasPrefix(path, ".."+string(filepath.Separator)) {
		return nil, errs.Validation("invalid path")
	}

	a, err := u.repos.Documents.FindAttachment(ctx, path)
	if err != nil {
		return nil, wrap("find attachment", err)
	}
	rc, err := u.files.Open(ctx, a.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, domain.ErrAttachmentMissing
	case errors.Is(err, filestore.ErrOutsideRoot):
		return nil, errs.Validation("invalid path")
	case err != nil:
		return nil, errs.Storage("open attachment", err)
	}

	mimetype := a.Mimetype
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	return &AttachmentDTO{Name: filepath.Base(a.Path), Mimetype: mimetype, Body: rc}, nil
}
