package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/semperland/events-grabber/internal/logger"
	"github.com/semperland/events-grabber/internal/store"
)

// Handler handles HTTP requests for the API.
type Handler struct {
	db       *sql.DB
	pageSize int
	log      *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, pageSize int, log *logger.Logger) *Handler {
	return &Handler{
		db:       db,
		pageSize: pageSize,
		log:      log,
	}
}

var (
	balancesResource = resource{
		table: "balances",
		filters: map[string]string{
			"owner": "owner",
			"token": "token",
			"brand": "brand",
		},
		sortColumns: map[string]bool{"owner": true, "token": true},
		defaultSort: "id",
	}

	dealsResource = resource{
		table: "deals",
		filters: map[string]string{
			"emitter":  "emitter",
			"receiver": "receiver",
			"status":   "status",
		},
		sortColumns: map[string]bool{"deal_index": true, "status": true},
		defaultSort: "id",
	}

	tokensResource = resource{
		table: "tokens_metadata",
		filters: map[string]string{
			"group": "token_group",
			"brand": "brand",
		},
		sortColumns: map[string]bool{"token_id": true, "token_group": true},
		defaultSort: "id",
	}

	parametersResource = resource{
		table:       "metaverse_parameters",
		filters:     map[string]string{"name": "name"},
		sortColumns: map[string]bool{"name": true},
		defaultSort: "name",
	}

	permissionsResource = resource{
		table: "metaverse_permissions",
		filters: map[string]string{
			"permission": "permission",
			"user":       "user",
		},
		sortColumns: map[string]bool{"permission": true, "user": true},
		defaultSort: "id",
	}

	brandPermissionsResource = resource{
		table: "brand_permissions",
		filters: map[string]string{
			"brand":      "brand",
			"permission": "permission",
			"user":       "user",
		},
		sortColumns: map[string]bool{"brand": true, "permission": true, "user": true},
		defaultSort: "id",
	}

	sponsorshipsResource = resource{
		table: "sponsors",
		filters: map[string]string{
			"sponsor": "sponsor",
			"brand":   "brand",
		},
		sortColumns: map[string]bool{"sponsor": true, "brand": true},
		defaultSort: "id",
	}
)

// Health returns the service status and the last processed block.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}

	block, found, err := store.GetLastBlock(h.db)
	if err != nil {
		h.log.Errorw("failed to read checkpoint", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read checkpoint")

		return
	}

	if found {
		response.LastBlock = &block
	}

	respondJSON(w, http.StatusOK, response)
}

// ListBalances returns balances filtered by owner, token or brand.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, balancesResource, new([]*store.Balance))
}

// ListDeals returns deals filtered by emitter, receiver or status.
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, dealsResource, new([]*store.Deal))
}

// GetDeal returns the deal with the given index.
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := store.GetDealByIndex(h.db, r.PathValue("index"))
	if err != nil {
		h.respondLookup(w, "deal", err)

		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// ListTokens returns token metadata filtered by group or brand.
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, tokensResource, new([]*store.TokenMetadata))
}

// GetToken returns the metadata of one token by its normalized id.
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	metadata, err := store.GetTokenMetadata(h.db, r.PathValue("id"))
	if err != nil {
		h.respondLookup(w, "token", err)

		return
	}

	respondJSON(w, http.StatusOK, metadata)
}

// ListParameters returns the metaverse parameters.
func (h *Handler) ListParameters(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, parametersResource, new([]*store.Parameter))
}

// ListPermissions returns metaverse-wide permission grants.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, permissionsResource, new([]*store.Permission))
}

// ListBrandPermissions returns brand-scoped permission grants.
func (h *Handler) ListBrandPermissions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, brandPermissionsResource, new([]*store.BrandPermission))
}

// ListSponsorships returns sponsorship links.
func (h *Handler) ListSponsorships(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, sponsorshipsResource, new([]*store.Sponsorship))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, res resource, dst interface{}) {
	limit, offset, err := pagination(r, h.pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())

		return
	}

	total, err := queryPage(r.Context(), h.db, res, r, limit, offset, dst)
	if err != nil {
		h.log.Errorw("query failed", "table", res.table, "error", err)
		respondError(w, http.StatusInternalServerError, "query failed")

		return
	}

	count := sliceLen(dst)

	respondJSON(w, http.StatusOK, ListResponse{
		Items: dst,
		Pagination: PaginationResult{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+count < total,
		},
	})
}

func (h *Handler) respondLookup(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, what+" not found")

		return
	}

	h.log.Errorw("lookup failed", "resource", what, "error", err)
	respondError(w, http.StatusInternalServerError, "query failed")
}

func sliceLen(dst interface{}) int {
	v := reflect.ValueOf(dst).Elem()
	if v.Kind() != reflect.Slice {
		return 0
	}

	return v.Len()
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
