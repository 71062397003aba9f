package introspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoCodeAlone/plugging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Gateway interface {
	Name() string
}

type Ledger interface {
	Balance() int
}

const (
	opRead plugging.Operations = 1 << iota
	opWrite
)

var gatewayOperations = plugging.MustOperationSet("gateway",
	plugging.Op("read", opRead),
	plugging.Op("write", opWrite),
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	opts := plugging.NewOptions()

	ripple, err := opts.AddModule("ripple")
	require.NoError(t, err)
	require.NoError(t, plugging.Register[Gateway](ripple, func(plugging.Container) (Gateway, error) { return nil, nil },
		plugging.WithUnsupportedOperations(gatewayOperations, opWrite)))
	require.NoError(t, plugging.Register[Ledger](ripple, func(plugging.Container) (Ledger, error) { return nil, nil }))
	ripple.Properties().Set("endpoint", "wss://s1.ripple.test")

	_, err = opts.AddModule("stellar")
	require.NoError(t, err)

	h, err := NewHandler(opts, nil)
	require.NoError(t, err)
	return h
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewHandler_RequiresOptions(t *testing.T) {
	_, err := NewHandler(nil, nil)
	require.ErrorIs(t, err, plugging.ErrOptionsNil)
}

func TestHandler_ListModules(t *testing.T) {
	rec := get(t, newTestHandler(t), "/modules")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var views []ModuleView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "ripple", views[0].Name)
	assert.Equal(t, "stellar", views[1].Name)
	assert.Empty(t, views[1].Services)

	require.Len(t, views[0].Services, 2)
	gateway := views[0].Services[0]
	assert.Equal(t, "introspect.Gateway", gateway.Service)
	assert.Equal(t, "read", gateway.Supported)
	assert.Equal(t, []string{"read"}, gateway.Operations)
	assert.Equal(t, "all", views[0].Services[1].Supported)
	assert.Equal(t, "wss://s1.ripple.test", views[0].Properties["endpoint"])
}

func TestHandler_GetModule(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/modules/RIPPLE")
	require.Equal(t, http.StatusOK, rec.Code)
	var view ModuleView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "ripple", view.Name)

	rec = get(t, h, "/modules/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "module not found")
}

func TestHandler_Supports(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
		want   bool
	}{
		{name: "registered service", target: "/modules/ripple/supports?service=introspect.Gateway", status: http.StatusOK, want: true},
		{name: "short service name", target: "/modules/ripple/supports?service=gateway", status: http.StatusOK, want: true},
		{name: "supported operation", target: "/modules/ripple/supports?service=Gateway&operation=read", status: http.StatusOK, want: true},
		{name: "unsupported operation", target: "/modules/ripple/supports?service=Gateway&operation=read%7Cwrite", status: http.StatusOK, want: false},
		{name: "unregistered service", target: "/modules/stellar/supports?service=Gateway", status: http.StatusOK, want: false},
		{name: "unknown module", target: "/modules/beta/supports?service=Gateway", status: http.StatusOK, want: false},
		{name: "missing service", target: "/modules/ripple/supports", status: http.StatusBadRequest},
		{name: "unknown operation", target: "/modules/ripple/supports?service=Gateway&operation=transfer", status: http.StatusBadRequest},
		{name: "empty operation list", target: "/modules/ripple/supports?service=Gateway&operation=%7C", status: http.StatusBadRequest},
		{name: "blank operation", target: "/modules/ripple/supports?service=Gateway&operation=%20", status: http.StatusBadRequest},
		{name: "service without operation names", target: "/modules/ripple/supports?service=Ledger&operation=read", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var view SupportsView
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
			assert.Equal(t, tt.want, view.Supported)
		})
	}
}
