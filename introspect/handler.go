// Package introspect exposes the modules configured in plugging.Options over
// HTTP so operators can see which module supports which service and
// operations.
package introspect

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/GoCodeAlone/plugging"
	"github.com/go-chi/chi/v5"
)

// ServiceView describes one core interface registered on a module.
type ServiceView struct {
	Service    string   `json:"service"`
	Supported  string   `json:"supported"`
	Operations []string `json:"operations,omitempty"`
	Decorators int      `json:"decorators,omitempty"`
}

// ModuleView describes a module.
type ModuleView struct {
	Name       string         `json:"name"`
	Services   []ServiceView  `json:"services"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SupportsView is the answer of the supports route.
type SupportsView struct {
	Module    string `json:"module"`
	Service   string `json:"service"`
	Operation string `json:"operation,omitempty"`
	Supported bool   `json:"supported"`
}

// Handler serves the introspection routes.
type Handler struct {
	options *plugging.Options
	logger  plugging.Logger
	router  chi.Router
}

// NewHandler creates a handler over opts. A nil logger discards diagnostics.
func NewHandler(opts *plugging.Options, logger plugging.Logger) (*Handler, error) {
	if opts == nil {
		return nil, plugging.ErrOptionsNil
	}
	if logger == nil {
		logger = plugging.NopLogger()
	}

	h := &Handler{options: opts, logger: logger}
	r := chi.NewRouter()
	h.SetupRoutes(r)
	h.router = r
	return h, nil
}

// SetupRoutes registers the routes on r.
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Route("/modules", func(r chi.Router) {
		r.Get("/", h.ListModules)
		r.Get("/{name}", h.GetModule)
		r.Get("/{name}/supports", h.Supports)
	})
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ListModules returns every module sorted by name.
func (h *Handler) ListModules(w http.ResponseWriter, _ *http.Request) {
	names := h.options.ModuleNames()
	views := make([]ModuleView, 0, len(names))
	for _, name := range names {
		if m, ok := h.options.Module(name); ok {
			views = append(views, moduleView(m))
		}
	}
	h.writeJSON(w, http.StatusOK, views)
}

// GetModule returns a single module.
func (h *Handler) GetModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := h.options.Module(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "module not found: "+name)
		return
	}
	h.writeJSON(w, http.StatusOK, moduleView(m))
}

// Supports reports whether a module supports a service, and optionally a set
// of operations given by name ("read" or "read|write").
func (h *Handler) Supports(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	service := r.URL.Query().Get("service")
	operation := r.URL.Query().Get("operation")
	if service == "" {
		h.writeError(w, http.StatusBadRequest, "service query parameter is required")
		return
	}

	view := SupportsView{Module: name, Service: service, Operation: operation}
	m, ok := h.options.Module(name)
	if !ok {
		h.writeJSON(w, http.StatusOK, view)
		return
	}
	iface, ok := findService(m, service)
	if !ok {
		h.writeJSON(w, http.StatusOK, view)
		return
	}

	info, _ := m.ServiceInfo(iface)
	op := plugging.NoOperations
	if operation != "" {
		if info.OperationSet == nil {
			h.writeError(w, http.StatusBadRequest, "service "+service+" has no named operations")
			return
		}
		parsed, err := info.OperationSet.Parse(strings.Split(operation, "|")...)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if parsed == plugging.NoOperations {
			h.writeError(w, http.StatusBadRequest, "operation "+operation+" names no operations")
			return
		}
		op = parsed
	}

	view.Supported = op == plugging.NoOperations || info.Supported.Has(op)
	h.writeJSON(w, http.StatusOK, view)
}

func findService(m *plugging.Module, name string) (reflect.Type, bool) {
	for _, t := range m.Services() {
		if strings.EqualFold(t.String(), name) || strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}

func moduleView(m *plugging.Module) ModuleView {
	view := ModuleView{
		Name:     m.Name(),
		Services: make([]ServiceView, 0),
	}
	for _, t := range m.Services() {
		info, _ := m.ServiceInfo(t)
		sv := ServiceView{
			Service:    t.String(),
			Supported:  info.Supported.String(),
			Operations: info.SupportedNames(),
			Decorators: info.Decorators,
		}
		if info.OperationSet != nil {
			sv.Supported = info.OperationSet.Format(info.Supported)
		}
		view.Services = append(view.Services, sv)
	}
	if m.Properties().Len() > 0 {
		view.Properties = m.Properties().Map()
	}
	return view
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to encode introspection response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.logger.Debug("Introspection request rejected", "status", status, "error", message)
	h.writeJSON(w, status, map[string]string{"error": message})
}
