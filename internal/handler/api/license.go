package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/workflow"
	reqdto "rental-engine/internal/handler/dto/request"
	resdto "rental-engine/internal/handler/dto/response"
	"rental-engine/internal/handler/httperr"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// multipart overhead on top of two images
const maxLicenseFormBytes = 2*commands.MaxLicenseImageBytes + 1<<20

type LicenseHandler struct {
	cmds commands.LicenseCommands
}

func NewLicenseHandler(cmds commands.LicenseCommands) *LicenseHandler {
	return &LicenseHandler{cmds: cmds}
}

// @Summary Submit driver's license
// @Description Upload front and back images of the caller's license for verification
// @Tags licenses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param number formData string true "License number"
// @Param country formData string true "Issuing country"
// @Param front formData file true "Front image"
// @Param back formData file true "Back image"
// @Success 201 {object} resdto.LicenseResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/licenses [post]
func (h *LicenseHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLicenseFormBytes)
	if err := c.Request.ParseMultipartForm(maxLicenseFormBytes); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid multipart form", nil)
		return
	}

	var fields errs.FieldErrors
	front := formDocument(c, &fields, "front")
	back := formDocument(c, &fields, "back")
	if !fields.Empty() {
		httperr.AbortWithClassified(c, fields.Err(license.ErrInvalidLicense))
		return
	}

	l, err := h.cmds.Submit(c.Request.Context(), workflow.LicenseUpload{
		RenterID: actor.ID,
		Number:   c.PostForm("number"),
		Country:  c.PostForm("country"),
		Front:    front,
		Back:     back,
	})
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromLicense(l))
}

// @Summary Resolve license verification
// @Description Record the outcome of a license check
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Param request body reqdto.LicenseResolutionRequest true "Verification outcome"
// @Success 200 {object} resdto.LicenseResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/licenses/{id}/resolution [post]
func (h *LicenseHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.LicenseResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	l, err := h.cmds.Resolve(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		httperr.AbortWithClassified(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromLicense(*l))
}

// formDocument reads one image part. Oversized parts are read one byte past
// the limit so the size check downstream rejects them.
func formDocument(c *gin.Context, fields *errs.FieldErrors, name string) workflow.Document {
	header, err := c.FormFile(name)
	if err != nil {
		fields.Add(name, "is required")
		return workflow.Document{}
	}
	data, err := readPart(header)
	if err != nil {
		fields.Add(name, "could not be read")
		return workflow.Document{}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return workflow.Document{FileName: header.Filename, ContentType: contentType, Data: data}
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, commands.MaxLicenseImageBytes+1))
}
