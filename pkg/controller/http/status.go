package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
	"github.com/studynotes-lab/grimoire/pkg/domain/model"
	"github.com/studynotes-lab/grimoire/pkg/usecase"
)

// statusOf maps domain failure classifications to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrNoteNotFound),
		errors.Is(err, interfaces.ErrVersionNotFound),
		errors.Is(err, usecase.ErrSectionNotFound),
		errors.Is(err, usecase.ErrDiagramNotFound):
		return http.StatusNotFound

	case goerr.HasTag(err, model.TagValidation),
		goerr.HasTag(err, model.TagExport):
		return http.StatusBadRequest

	case goerr.HasTag(err, model.TagProvider),
		goerr.HasTag(err, model.TagRegeneration):
		return http.StatusBadGateway

	case goerr.HasTag(err, model.TagGenerationParse):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
