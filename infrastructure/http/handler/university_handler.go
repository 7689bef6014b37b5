package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/http/response"
	"github.com/unifind/unifind/infrastructure/http/validator"
)

type UniversityHandler struct {
	universities inbound.UniversityUseCase
}

func NewUniversityHandler(universities inbound.UniversityUseCase) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

func (h *UniversityHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		response.AppError(w, err)
		return
	}

	list, err := h.universities.List(r.Context(), query)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", list)
}

func (h *UniversityHandler) Get(w http.ResponseWriter, r *http.Request) {
	university, err := h.universities.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", university)
}

func (h *UniversityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUniversityRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	university, err := h.universities.Create(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "University created successfully", university)
}

func (h *UniversityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateUniversityRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	university, err := h.universities.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "University updated successfully", university)
}

func (h *UniversityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.universities.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *UniversityHandler) Programs(w http.ResponseWriter, r *http.Request) {
	programs, err := h.universities.Programs(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", programs)
}

func (h *UniversityHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.universities.Statistics(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", stats)
}

func (h *UniversityHandler) Types(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "success", entity.UniversityTypes())
}

func (h *UniversityHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "success", entity.Rankings())
}

func (h *UniversityHandler) Languages(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "success", entity.Languages())
}

// parseListQuery reads pagination and filters. An absent limit means the default page size.
func parseListQuery(r *http.Request) (inbound.ListUniversitiesQuery, error) {
	q := r.URL.Query()
	query := inbound.ListUniversitiesQuery{Limit: inbound.DefaultListLimit}

	var err error
	if v := q.Get("skip"); v != "" {
		if query.Skip, err = strconv.Atoi(v); err != nil {
			return query, apperror.Validation("skip: must be an integer.")
		}
	}
	if v, ok := q["limit"]; ok {
		if query.Limit, err = strconv.Atoi(v[0]); err != nil {
			return query, apperror.Validation("limit: must be an integer.")
		}
	}

	query.Filters = outbound.UniversityFilters{
		Country: q.Get("country"),
		City:    q.Get("city"),
		Type:    entity.UniversityType(q.Get("university_type")),
		Ranking: entity.Ranking(q.Get("ranking")),
		Search:  q.Get("search"),
	}
	if query.Filters.OffersScholarships, err = optionalBool(q.Get("offers_scholarships")); err != nil {
		return query, apperror.Validation("offers_scholarships: must be a boolean.")
	}
	if query.Filters.ProvidesAccommodation, err = optionalBool(q.Get("provides_accommodation")); err != nil {
		return query, apperror.Validation("provides_accommodation: must be a boolean.")
	}
	return query, nil
}

func optionalBool(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
