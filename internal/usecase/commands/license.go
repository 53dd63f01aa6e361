package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/domain/workflow"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/queries"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const MaxLicenseImageBytes = 10 << 20

var licenseImageExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type LicenseCommands interface {
	// Submit stores both images and records a pending submission.
	Submit(ctx context.Context, upload workflow.LicenseUpload) (license.License, error)
	// Resolve applies the outcome of a document review to a submission.
	Resolve(ctx context.Context, licenseID uuid.UUID, result license.ReviewResult) (*license.License, error)
}

type licenseCommandsImpl struct {
	uow            shared.UnitOfWork
	documents      DocumentStore
	licenseQueries queries.LicenseQueries
	clock          clock.Clock
}

func NewLicenseCommands(uow shared.UnitOfWork, documents DocumentStore, licenseQueries queries.LicenseQueries, clock clock.Clock) LicenseCommands {
	return &licenseCommandsImpl{
		uow:            uow,
		documents:      documents,
		licenseQueries: licenseQueries,
		clock:          clock,
	}
}

func (c *licenseCommandsImpl) Submit(ctx context.Context, upload workflow.LicenseUpload) (license.License, error) {
	var fields errs.FieldErrors
	validateImage(&fields, "front_image", upload.Front)
	validateImage(&fields, "back_image", upload.Back)
	if err := fields.Err(license.ErrInvalidLicense); err != nil {
		return license.License{}, err
	}

	prefix := fmt.Sprintf("licenses/%s/%s", upload.RenterID, uuid.New())
	frontKey := prefix + "-front" + licenseImageExtensions[upload.Front.ContentType]
	backKey := prefix + "-back" + licenseImageExtensions[upload.Back.ContentType]

	sub, err := license.NewSubmission(upload.RenterID, upload.Number, upload.Country, frontKey, backKey)
	if err != nil {
		return license.License{}, err
	}

	if err := c.documents.Put(ctx, frontKey, upload.Front.ContentType, upload.Front.Data); err != nil {
		return license.License{}, errs.Dependency(errs.Mark(err, errs.ErrStorageFailed))
	}
	if err := c.documents.Put(ctx, backKey, upload.Back.ContentType, upload.Back.Data); err != nil {
		return license.License{}, errs.Dependency(errs.Mark(err, errs.ErrStorageFailed))
	}

	var created license.License
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()
		var err error
		created, err = tx.Licenses().Create(ctx, tx.DB(), sub, now)
		if err != nil {
			return err
		}
		return c.enqueueEvent(ctx, tx, shared.TopicLicenseSubmitted, created)
	})
	if err != nil {
		return license.License{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return created, nil
}

func (c *licenseCommandsImpl) Resolve(ctx context.Context, licenseID uuid.UUID, result license.ReviewResult) (*license.License, error) {
	if result.Confidence < 0 || result.Confidence > 100 {
		return nil, errs.Validation(license.ErrInvalidLicense, errs.FieldError{Field: "confidence", Message: "must be between 0 and 100"})
	}

	confidence := result.Confidence
	resolution := shared.LicenseResolution{
		Status:     license.Classify(result),
		Confidence: &confidence,
		Concerns:   result.Concerns,
		ResolvedAt: c.clock.Now(),
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Licenses().UpdateStatus(ctx, tx.DB(), licenseID, resolution); err != nil {
			return err
		}
		return c.enqueueEvent(ctx, tx, shared.TopicLicenseResolved, license.License{ID: licenseID, Status: resolution.Status})
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrLicenseNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return c.licenseQueries.GetByID(ctx, licenseID)
}

func (c *licenseCommandsImpl) enqueueEvent(ctx context.Context, tx shared.Tx, topic string, l license.License) error {
	now := c.clock.Now()
	data := map[string]any{"status": string(l.Status)}
	if l.RenterID != uuid.Nil {
		data["renter_id"] = l.RenterID
	}
	event, err := json.Marshal(shared.Event{
		Type:        topic,
		AggregateID: l.ID,
		OccurredAt:  now,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), shared.JobKindEvent, topic, event, now)
}

func validateImage(fields *errs.FieldErrors, field string, doc workflow.Document) {
	switch {
	case len(doc.Data) == 0:
		fields.Add(field, "is required")
	case len(doc.Data) > MaxLicenseImageBytes:
		fields.Add(field, "must be at most 10 MB")
	case licenseImageExtensions[doc.ContentType] == "":
		fields.Add(field, fmt.Sprintf("has unsupported type %q", doc.ContentType))
	}
}
