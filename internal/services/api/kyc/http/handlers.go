// Package http provides http transport for kyc
package http

import (
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/modkit/httpkit"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/services/api/kyc/domain"
	svc "kycdesk/internal/services/api/kyc/service"
	"kycdesk/internal/services/api/remote"
)

// maxUpload matches the builder's document size limit
const maxUpload = 10 << 20

// Register mounts kyc endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CreateVerificationInput](r, "/", h.create)
	httpkit.PostJSON[domain.RemoteInput](r, "/{verification_id}", h.get)
	httpkit.PostJSON[domain.RemoteInput](r, "/{verification_id}/documents", h.documents)
	httpkit.Post(r, "/{verification_id}/documents/{document_id}", h.upload)
	httpkit.PatchJSON[domain.StateInput](r, "/{verification_id}/state", h.state)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /verifications Verifications createVerification
// @Summary Create a remitter or beneficiary verification
// @Tags Verifications
// @Accept json
// @Produce json
// @Param payload body domain.CreateVerificationInput true "Verification"
// @Success 200 {object} dlocal.View "remote outcome"
// @Router /verifications [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateVerificationInput) (any, error) {
	return h.svc.CreateVerification(r.Context(), in)
}

// swagger:route POST /verifications/{verification_id} Verifications getVerification
// @Summary Fetch a verification with client data
// @Tags Verifications
// @Router /verifications/{verification_id} [post]
func (h *handlers) get(r *stdhttp.Request, in domain.RemoteInput) (any, error) {
	return h.svc.GetVerification(r.Context(), httpkit.Param(r, "verification_id"), in)
}

// swagger:route POST /verifications/{verification_id}/documents Verifications listDocuments
// @Summary List the document slots of a verification
// @Tags Verifications
// @Router /verifications/{verification_id}/documents [post]
func (h *handlers) documents(r *stdhttp.Request, in domain.RemoteInput) (any, error) {
	return h.svc.ListDocuments(r.Context(), httpkit.Param(r, "verification_id"), in)
}

// swagger:route POST /verifications/{verification_id}/documents/{document_id} Verifications uploadDocument
// @Summary Upload a document file
// @Tags Verifications
// @Accept multipart/form-data
// @Router /verifications/{verification_id}/documents/{document_id} [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	in, err := parseUpload(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UploadDocument(r.Context(), in)
}

// swagger:route PATCH /verifications/{verification_id}/state Verifications updateState
// @Summary Move a sandbox verification to another state
// @Tags Verifications
// @Router /verifications/{verification_id}/state [patch]
func (h *handlers) state(r *stdhttp.Request, in domain.StateInput) (any, error) {
	return h.svc.UpdateState(r.Context(), httpkit.Param(r, "verification_id"), in)
}

// parseUpload reads login, transaction_key, secret_key, use_sandbox and file from the form
func parseUpload(r *stdhttp.Request) (domain.UploadInput, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return domain.UploadInput{}, perr.InvalidArgf("expected a multipart form: %v", err)
	}
	sandbox := !strings.EqualFold(strings.TrimSpace(r.FormValue("use_sandbox")), "false")
	in := domain.UploadInput{
		Auth: remote.Auth{
			Credentials: dlocal.Credentials{
				Login:     r.FormValue("login"),
				TransKey:  r.FormValue("transaction_key"),
				SecretKey: r.FormValue("secret_key"),
			},
			UseSandbox: &sandbox,
		},
		VerificationID: httpkit.Param(r, "verification_id"),
		DocumentID:     httpkit.Param(r, "document_id"),
	}

	f, fh, err := r.FormFile("file")
	if errors.Is(err, stdhttp.ErrMissingFile) {
		return in, perr.FieldInvalidf("file", "file is required")
	}
	if err != nil {
		return in, perr.InvalidArgf("read file: %v", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return in, perr.InvalidArgf("read file: %v", err)
	}
	in.File = dlocal.DocumentFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return in, nil
}
