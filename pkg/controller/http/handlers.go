package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/domain/types"
	"github.com/studynotes-lab/grimoire/pkg/utils/errutil"
	"github.com/studynotes-lab/grimoire/pkg/utils/safe"
)

type generateRequest struct {
	Topic              string `json:"topic"`
	EducationLevel     string `json:"education_level"`
	CustomRequirements string `json:"custom_requirements"`
}

func (r generateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Topic, validation.Required),
		validation.Field(&r.EducationLevel, validation.In(
			string(types.LevelBasic),
			string(types.LevelIntermediate),
			string(types.LevelAdvanced),
		)),
	)
}

type updateSectionRequest struct {
	Content string `json:"content"`
}

type reorderRequest struct {
	Kinds []string `json:"kinds"`
}

func (r reorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kinds, validation.Required, validation.Length(1, 0)),
	)
}

type regenerateDiagramRequest struct {
	CustomDescription string `json:"custom_description"`
}

type sectionResponse struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
	Order   int    `json:"order"`
}

type diagramResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Caption           string `json:"caption"`
	Prompt            string `json:"prompt"`
	CustomDescription string `json:"custom_description,omitempty"`
	ImageData         []byte `json:"image_data,omitempty"`
	Resolved          bool   `json:"resolved"`
}

type noteResponse struct {
	ID             string            `json:"id"`
	Topic          string            `json:"topic"`
	EducationLevel string            `json:"education_level"`
	Sections       []sectionResponse `json:"sections"`
	Diagrams       []diagramResponse `json:"diagrams"`
	GeneratedAt    time.Time         `json:"generated_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type versionResponse struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	SavedAt time.Time `json:"saved_at"`
}

func toNoteResponse(doc *model.NoteDocument) noteResponse {
	resp := noteResponse{
		ID:             doc.ID.String(),
		Topic:          doc.Topic,
		EducationLevel: doc.EducationLevel.String(),
		Sections:       make([]sectionResponse, len(doc.Sections)),
		Diagrams:       make([]diagramResponse, len(doc.Diagrams)),
		GeneratedAt:    doc.GeneratedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	for i, s := range doc.Sections {
		resp.Sections[i] = sectionResponse{
			Kind:    s.Kind.String(),
			Title:   s.Title,
			Content: s.Content,
			Icon:    s.Icon,
			Order:   s.Order,
		}
	}
	for i, d := range doc.Diagrams {
		resp.Diagrams[i] = diagramResponse{
			ID:                d.ID,
			Title:             d.Title,
			Caption:           d.Caption,
			Prompt:            d.Prompt,
			CustomDescription: d.CustomDescription,
			ImageData:         d.ImageData,
			Resolved:          d.Resolved(),
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(model.TagValidation))
	}
	return nil
}

func (s *Server) handleGenerateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid generation request"), http.StatusBadRequest)
		return
	}

	doc, err := s.uc.GenerateNote(ctx, req.Topic,
		types.EducationLevel(req.EducationLevel), req.CustomRequirements)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(doc))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := s.uc.ListNotes(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := make([]noteResponse, len(docs))
	for i, doc := range docs {
		resp[i] = toNoteResponse(doc)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := s.uc.GetNote(ctx, types.NoteID(chi.URLParam(r, "noteID")))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(doc))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.uc.DeleteNote(ctx, types.NoteID(chi.URLParam(r, "noteID"))); err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.uc.ExportNote(ctx, types.NoteID(chi.URLParam(r, "noteID")))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, result.Data)
}

func (s *Server) handleRegenerateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		CustomRequirements string `json:"custom_requirements"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
	}

	sec, err := s.uc.RegenerateSection(ctx,
		types.NoteID(chi.URLParam(r, "noteID")),
		types.SectionKind(chi.URLParam(r, "kind")),
		req.CustomRequirements)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	writeJSON(w, http.StatusOK, sectionResponse{
		Kind:    sec.Kind.String(),
		Title:   sec.Title,
		Content: sec.Content,
		Icon:    sec.Icon,
		Order:   sec.Order,
	})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	sec, err := s.uc.UpdateSectionContent(ctx,
		types.NoteID(chi.URLParam(r, "noteID")),
		types.SectionKind(chi.URLParam(r, "kind")),
		req.Content)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	writeJSON(w, http.StatusOK, sectionResponse{
		Kind:    sec.Kind.String(),
		Title:   sec.Title,
		Content: sec.Content,
		Icon:    sec.Icon,
		Order:   sec.Order,
	})
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid reorder request"), http.StatusBadRequest)
		return
	}

	kinds := make([]types.SectionKind, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = types.SectionKind(k)
	}

	doc, err := s.uc.ReorderSections(ctx, types.NoteID(chi.URLParam(r, "noteID")), kinds)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(doc))
}

func (s *Server) handleRegenerateDiagram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req regenerateDiagramRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
	}

	data, err := s.uc.RegenerateDiagram(ctx,
		types.NoteID(chi.URLParam(r, "noteID")),
		chi.URLParam(r, "diagramID"),
		req.CustomDescription)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"diagram_id": chi.URLParam(r, "diagramID"),
		"image_data": data,
	})
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	versions, err := s.uc.ListVersions(ctx, types.NoteID(chi.URLParam(r, "noteID")))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := make([]versionResponse, len(versions))
	for i, v := range versions {
		resp[i] = versionResponse{
			ID:      v.ID.String(),
			Label:   v.Label,
			SavedAt: v.SavedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := s.uc.RestoreVersion(ctx,
		types.NoteID(chi.URLParam(r, "noteID")),
		types.VersionID(chi.URLParam(r, "versionID")))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(doc))
}
