package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/dbx"
	"github.com/marinesurvey/inspector/internal/imagex"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/repositories/repomanager"
	"github.com/marinesurvey/inspector/internal/server/storage"
)

// Upload is one file of a multipart inspection submission.
type Upload struct {
	Filename string
	Body     io.Reader
}

// NewInspection is the inspection submission contract shared by the HTTP
// form and the service.
type NewInspection struct {
	UserID         string
	ShipName       string
	PortName       string
	InspectionType string
	InspectionDate string
	Notes          string
	ShipImages     []Upload
	Logos          []Upload
}

var inspectionDateLayouts = []string{"2006-01-02", time.RFC3339}

type InspectionService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	store        storage.Store
	maxImageSide int
	log          logging.Logger
}

func NewInspectionService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, maxImageSide int, log logging.Logger) *InspectionService {
	return &InspectionService{
		db:           db,
		repomanager:  m,
		store:        store,
		maxImageSide: maxImageSide,
		log:          log.With("module", "inspections"),
	}
}

// Create validates the submission, stores its files and records the
// inspection with its image references in one transaction. Stored files are
// removed again when the transaction fails.
func (s *InspectionService) Create(ctx context.Context, in NewInspection) (*models.Inspection, error) {
	if len(in.ShipImages) > models.MaxShipImages {
		return nil, common.NewError(common.ErrorValidation, fmt.Sprintf("At most %d ship images are allowed", models.MaxShipImages))
	}
	if len(in.Logos) > 1 {
		return nil, common.NewError(common.ErrorValidation, "Only one logo is allowed")
	}

	date, err := parseInspectionDate(in.InspectionDate)
	if err != nil {
		return nil, err
	}

	inspection := &models.Inspection{
		UserID:         strings.TrimSpace(in.UserID),
		ShipName:       strings.TrimSpace(in.ShipName),
		PortName:       strings.TrimSpace(in.PortName),
		InspectionType: strings.TrimSpace(in.InspectionType),
		InspectionDate: date,
		Status:         models.InspectionPending,
		Notes:          in.Notes,
		ShipImages:     make([]string, 0, len(in.ShipImages)),
	}
	if err := inspection.Validate(); err != nil {
		return nil, common.WrapError(common.ErrorValidation, err.Error(), err)
	}

	var stored []string
	cleanup := func() {
		for _, ref := range stored {
			if err := s.store.Delete(context.WithoutCancel(ctx), ref); err != nil {
				s.log.Warn(ctx, "failed to remove orphaned upload", "ref", ref, "error", err)
			}
		}
	}

	for i, up := range in.ShipImages {
		ref, err := s.storeImage(ctx, "inspections", up)
		if err != nil {
			cleanup()
			return nil, uploadError(fmt.Sprintf("shipImage %d", i+1), err)
		}
		stored = append(stored, ref)
		inspection.ShipImages = append(inspection.ShipImages, ref)
	}

	for _, up := range in.Logos {
		ref, err := s.storeImage(ctx, "logos", up)
		if err != nil {
			cleanup()
			return nil, uploadError("logo", err)
		}
		stored = append(stored, ref)
		inspection.Logo = ref
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Inspections(tx).Create(ctx, inspection)
		return err
	})
	if err != nil {
		cleanup()
		var ce *common.Error
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, internal(err)
	}

	s.log.Info(ctx, "inspection created", "inspection_id", inspection.ID, "images", len(inspection.ShipImages))
	return inspection, nil
}

func (s *InspectionService) Get(ctx context.Context, id string) (*models.Inspection, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrorValidation, "Invalid inspection ID format")
	}

	inspection, err := s.repomanager.Inspections(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "Inspection not found")
		}
		return nil, internal(err)
	}
	return inspection, nil
}

// List returns all inspections ordered by creation time, newest first.
func (s *InspectionService) List(ctx context.Context) ([]*models.Inspection, error) {
	list, err := s.repomanager.Inspections(s.db).List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// storeImage normalises an uploaded image and stores it under prefix. The
// stored content type is derived from the decoded format, never from the
// client.
func (s *InspectionService) storeImage(ctx context.Context, prefix string, up Upload) (string, error) {
	data, err := io.ReadAll(up.Body)
	if err != nil {
		return "", err
	}

	out, format, err := imagex.Fit(data, s.maxImageSide)
	if err != nil {
		return "", err
	}

	key := storage.NewKey(prefix, "image."+format)
	return s.store.Put(ctx, key, bytes.NewReader(out), int64(len(out)), "image/"+format)
}

func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, imagex.ErrUnsupported):
		return common.NewError(common.ErrorValidation, field+" is not a jpeg, png or gif image")
	case errors.Is(err, imagex.ErrTooLarge):
		return common.NewError(common.ErrorValidation, fmt.Sprintf("%s exceeds %d pixels", field, imagex.MaxPixels))
	}
	return internal(err)
}

func parseInspectionDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, common.NewError(common.ErrorValidation, "inspectionDate: cannot be blank.")
	}
	for _, layout := range inspectionDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewError(common.ErrorValidation, "inspectionDate: must be YYYY-MM-DD or RFC 3339.")
}
