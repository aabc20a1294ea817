package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dimatakoy/org-demo/internal/apperror"
	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/pagination"
	"github.com/dimatakoy/org-demo/internal/service"
)

const apiPrefix = "/api/v1"

type Handler struct {
	directory service.Directory
	pages     pagination.Policy
	logger    logrus.FieldLogger
	router    *mux.Router
}

// NewHandler builds the API router. observer may be nil.
func NewHandler(directory service.Directory, pages pagination.Policy, logger logrus.FieldLogger, observer RequestObserver) *Handler {
	h := &Handler{
		directory: directory,
		pages:     pages,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	h.routes(observer)
	return h
}

func (h *Handler) routes(observer RequestObserver) {
	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route_not_found", "route not found")
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	if observer != nil {
		h.router.Use(metricsMiddleware(observer))
	}

	h.router.HandleFunc("/healthcheck", healthcheck).Methods(http.MethodGet)

	api := h.router.PathPrefix(apiPrefix).Subrouter()
	handleList(api, "/employees", h.handleListEmployees)
	api.HandleFunc("/employees/{id}", h.handleGetEmployee).Methods(http.MethodGet)
	handleList(api, "/departments", h.handleListDepartments)
	api.HandleFunc("/departments/{id}", h.handleGetDepartment).Methods(http.MethodGet)
	handleList(api, "/departments/{id}/employees", h.handleListDepartmentEmployees)
	api.HandleFunc("/departments/{id}/breadcrumbs", h.handleGetDepartmentBreadcrumbs).Methods(http.MethodGet)
	handleList(api, "/positions", h.handleListPositions)
	api.HandleFunc("/positions/{id}", h.handleGetPosition).Methods(http.MethodGet)
}

// handleList registers a list route with and without the trailing slash.
func handleList(router *mux.Router, path string, fn http.HandlerFunc) {
	router.HandleFunc(path, fn).Methods(http.MethodGet)
	router.HandleFunc(path+"/", fn).Methods(http.MethodGet)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	employee, err := h.directory.GetEmployee(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	employees, err := h.directory.ListEmployees(r.Context(), page)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	options, err := parseGetDepartmentOptions(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	department, err := h.directory.GetDepartment(r.Context(), id, options)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, department)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	departments, err := h.directory.ListDepartments(r.Context(), page)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

func (h *Handler) handleListDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	page, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	employees, err := h.directory.ListDepartmentEmployees(r.Context(), id, page)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetDepartmentBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	breadcrumbs, err := h.directory.GetDepartmentBreadcrumbs(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, breadcrumbs)
}

func (h *Handler) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	position, err := h.directory.GetPosition(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, position)
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	positions, err := h.directory.ListPositions(r.Context(), page)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type errorResponse struct {
	OK        bool              `json:"ok"`
	ErrorCode string            `json:"error_code"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// respondWithError maps application errors to statuses. Missing records
// answer 410 Gone with only the discriminator.
func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeNotFound:
		writeJSON(w, http.StatusGone, errorResponse{ErrorCode: apperror.GetErrorCode(err)})
	case apperror.CodeValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			ErrorCode: apperror.GetErrorCode(err),
			Message:   err.Error(),
			Fields:    apperror.GetFields(err),
		})
	case apperror.CodeProtected, apperror.CodeConflict:
		writeError(w, http.StatusConflict, apperror.GetErrorCode(err), err.Error())
	default:
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("unexpected error")
		writeError(w, http.StatusInternalServerError, string(apperror.CodeInternal), "internal server error")
	}
}

func (h *Handler) pageParams(w http.ResponseWriter, r *http.Request) (pagination.Params, bool) {
	page, err := h.pages.Parse(r.URL.Query())
	if err != nil {
		h.respondWithError(w, r, err)
		return pagination.Params{}, false
	}
	return page, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		ErrorCode: code,
		Message:   message,
	})
}

// pathID reads the {id} route variable. Any integer is accepted so that
// unknown ids, negative ones included, reach the lookup and answer 410.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			ErrorCode: string(apperror.CodeValidation),
			Message:   "id must be an integer",
			Fields:    map[string]string{"id": "must be an integer"},
		})
		return 0, false
	}
	return id, true
}

func parseGetDepartmentOptions(r *http.Request) (service.GetDepartmentOptions, error) {
	depth := 0
	if rawDepth := strings.TrimSpace(r.URL.Query().Get("depth")); rawDepth != "" {
		parsedDepth, err := strconv.Atoi(rawDepth)
		if err != nil || parsedDepth < 0 || parsedDepth > hierarchy.MaxDepth {
			return service.GetDepartmentOptions{}, apperror.Validation(map[string]string{
				"depth": "depth must be an integer between 0 and " + strconv.Itoa(hierarchy.MaxDepth),
			})
		}
		depth = parsedDepth
	}

	return service.GetDepartmentOptions{Depth: depth}, nil
}
