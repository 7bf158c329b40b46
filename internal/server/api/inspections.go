package api

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/marinesurvey/inspector/internal/server/services"
)

const (
	multipartMemory   = 32 << 20
	maxInspectionBody = 512 << 20
)

type createInspectionResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	InspectionID string `json:"inspectionId"`
	ImageCount   int    `json:"imageCount"`
}

type inspectionResponse struct {
	Success    bool               `json:"success"`
	Inspection *models.Inspection `json:"inspection"`
}

type inspectionsResponse struct {
	Success     bool                 `json:"success"`
	Count       int                  `json:"count"`
	Inspections []*models.Inspection `json:"inspections"`
}

func (s *Server) handleCreateInspection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInspectionBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		msg := "Invalid multipart form"
		if isBodyTooLarge(err) {
			msg = "Upload too large"
		}
		s.fail(w, r, common.WrapError(common.ErrorValidation, msg, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := r.MultipartForm
	images := append(append([]*multipart.FileHeader{}, form.File["shipImage"]...), form.File["shipImage[]"]...)
	logos := form.File["logo"]

	// limits are checked before any part is opened
	if len(images) > models.MaxShipImages {
		s.fail(w, r, common.NewError(common.ErrorValidation, fmt.Sprintf("At most %d ship images are allowed", models.MaxShipImages)))
		return
	}
	if len(logos) > 1 {
		s.fail(w, r, common.NewError(common.ErrorValidation, "Only one logo is allowed"))
		return
	}

	in := services.NewInspection{
		UserID:         r.FormValue("userId"),
		ShipName:       r.FormValue("shipName"),
		PortName:       r.FormValue("portName"),
		InspectionType: r.FormValue("inspectionType"),
		InspectionDate: r.FormValue("inspectionDate"),
		Notes:          r.FormValue("notes"),
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	open := func(fhs []*multipart.FileHeader) ([]services.Upload, error) {
		ups := make([]services.Upload, 0, len(fhs))
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			opened = append(opened, f)
			ups = append(ups, services.Upload{
				Filename: fh.Filename,
				Body:     f,
			})
		}
		return ups, nil
	}

	var err error
	if in.ShipImages, err = open(images); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.Logos, err = open(logos); err != nil {
		s.fail(w, r, err)
		return
	}

	insp, err := s.deps.Inspections.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createInspectionResponse{
		Success:      true,
		Message:      "Inspection created successfully",
		InspectionID: insp.ID,
		ImageCount:   len(insp.ShipImages),
	})
}

func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	insp, err := s.deps.Inspections.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inspectionResponse{Success: true, Inspection: insp})
}

func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Inspections.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Inspection{}
	}
	writeJSON(w, http.StatusOK, inspectionsResponse{Success: true, Count: len(list), Inspections: list})
}
