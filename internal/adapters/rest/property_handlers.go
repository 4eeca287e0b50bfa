package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/favourites"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/port/usecases_port"
)

type PropertyHandler struct {
	searchUC     usecases_port.SearchPropertiesUseCasePort
	getUC        usecases_port.GetPropertyUseCasePort
	favouritesUC usecases_port.GetFavouritesUseCasePort
}

func NewPropertyHandler(searchUC usecases_port.SearchPropertiesUseCasePort,
	getUC usecases_port.GetPropertyUseCasePort,
	favouritesUC usecases_port.GetFavouritesUseCasePort) *PropertyHandler {
	return &PropertyHandler{searchUC: searchUC, getUC: getUC, favouritesUC: favouritesUC}
}

// criteriaFromQuery reads the search form from query parameters.
func criteriaFromQuery(r *http.Request) domain.SearchCriteria {
	q := r.URL.Query()
	return domain.CriteriaForm{
		Type:        q.Get("type"),
		MinPrice:    q.Get("minPrice"),
		MaxPrice:    q.Get("maxPrice"),
		MinBedrooms: q.Get("minBedrooms"),
		MaxBedrooms: q.Get("maxBedrooms"),
		DateAfter:   q.Get("dateAfter"),
		DateBefore:  q.Get("dateBefore"),
		Postcode:    q.Get("postcode"),
	}.Criteria()
}

// currentFavourites returns the caller's favourites, or an empty snapshot
// when no session was sent.
func (h *PropertyHandler) currentFavourites(r *http.Request) favourites.Snapshot {
	id, ok := sessionIDFromContext(r.Context())
	if !ok {
		return favourites.Snapshot{}
	}
	snap, err := h.favouritesUC.Execute(r.Context(), id)
	if err != nil {
		return favourites.Snapshot{}
	}
	return snap
}

// Search handles GET /api/v1/properties. No parameters lists the whole
// catalog.
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchProperties"})

	results := h.searchUC.Execute(r.Context(), criteriaFromQuery(r))
	favs := h.currentFavourites(r)

	cards := make([]PropertyCardResponse, 0, len(results))
	for _, rec := range results {
		cards = append(cards, toCard(rec, favs.Contains(rec.ID)))
	}

	logger.Debug("Search handled", port.Fields{"results": len(cards)})
	RespondWithJSON(w, http.StatusOK, SearchResponse{Total: len(cards), Properties: cards})
}

// GetByID handles GET /api/v1/properties/{propertyID}.
func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "GetProperty",
		"property_id": propertyID,
	})

	details, err := h.getUC.Execute(r.Context(), propertyID)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("GetProperty use case failed", err, nil)
		}
		WriteJSONError(w, status, msg)
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetails(*details, h.currentFavourites(r).Contains(propertyID)))
}
