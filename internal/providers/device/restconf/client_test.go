package restconf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/routerbot/internal/config"
	"github.com/sandevgo/routerbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	configPath = "/restconf/data/ietf-interfaces:interfaces/interface=Loopback046"
	statePath  = "/restconf/data/ietf-interfaces:interfaces-state/interface=Loopback046"
)

type recorded struct {
	method      string
	path        string
	contentType string
	accept      string
	user        string
	pass        string
	body        []byte
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			accept:      r.Header.Get("Accept"),
			user:        user,
			pass:        pass,
			body:        body,
		})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &config.DeviceConfig{
		Username:           "admin",
		Password:           "cisco",
		InsecureSkipVerify: true,
		RestconfBaseURL:    server.URL + "/restconf/data",
		RestconfTimeout:    2 * time.Second,
	}
	return NewClient(cfg), rec
}

func statusHandler(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	}
}

func TestClient_InterfaceExists(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{"found", http.StatusOK, true},
		{"not_found", http.StatusNotFound, false},
		{"no_content", http.StatusNoContent, false},
		{"server_error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, statusHandler(tt.code, ""))

			assert.Equal(t, tt.want, c.InterfaceExists(context.Background(), "Loopback046"))
			calls := rec.all()
			require.Len(t, calls, 1)
			call := calls[0]
			assert.Equal(t, http.MethodGet, call.method)
			assert.Equal(t, configPath, call.path)
			assert.Equal(t, mediaType, call.accept)
			assert.Equal(t, mediaType, call.contentType)
			assert.Equal(t, "admin", call.user)
			assert.Equal(t, "cisco", call.pass)
		})
	}
}

func TestClient_CreateLoopback(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		t.Run(fmt.Sprintf("accepts_%d", code), func(t *testing.T) {
			c, rec := newTestClient(t, statusHandler(code, ""))

			require.True(t, c.CreateLoopback(context.Background(), "Loopback046", "172.0.46.1/24"))
			calls := rec.all()
			require.Len(t, calls, 1)

			call := calls[0]
			assert.Equal(t, http.MethodPut, call.method)
			assert.Equal(t, configPath, call.path)
			assert.JSONEq(t, `{
				"ietf-interfaces:interface": {
					"name": "Loopback046",
					"type": "iana-if-type:softwareLoopback",
					"enabled": true,
					"ietf-ip:ipv4": {"address": [{"ip": "172.0.46.1", "netmask": "255.255.255.0"}]}
				}
			}`, string(call.body))
		})
	}

	t.Run("rejected", func(t *testing.T) {
		c, _ := newTestClient(t, statusHandler(http.StatusBadRequest, `{"errors":{}}`))
		assert.False(t, c.CreateLoopback(context.Background(), "Loopback046", "172.0.46.1/24"))
	})

	t.Run("invalid_cidr_sends_nothing", func(t *testing.T) {
		c, rec := newTestClient(t, statusHandler(http.StatusCreated, ""))
		assert.False(t, c.CreateLoopback(context.Background(), "Loopback046", "172.0.46.1"))
		calls := rec.all()
		assert.Empty(t, calls)
	})
}

func TestClient_DeleteLoopback(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, true},
		{http.StatusNoContent, true},
		{http.StatusCreated, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			c, rec := newTestClient(t, statusHandler(tt.code, ""))
			assert.Equal(t, tt.want, c.DeleteLoopback(context.Background(), "Loopback046"))
			calls := rec.all()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodDelete, calls[0].method)
		})
	}
}

func TestClient_SetEnabled(t *testing.T) {
	c, rec := newTestClient(t, statusHandler(http.StatusNoContent, ""))

	require.True(t, c.SetEnabled(context.Background(), "Loopback046", false))
	calls := rec.all()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPatch, calls[0].method)
	assert.JSONEq(t, `{"ietf-interfaces:interface": {"enabled": false}}`, string(calls[0].body))

	c, _ = newTestClient(t, statusHandler(http.StatusCreated, ""))
	assert.False(t, c.SetEnabled(context.Background(), "Loopback046", true))
}

func TestClient_AdminOperStatus(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		want      core.InterfaceState
		wantCalls int
	}{
		{
			name:      "live_state",
			handler:   statusHandler(http.StatusOK, `{"ietf-interfaces:interface":{"name":"Loopback046","admin-status":"up","oper-status":"up"}}`),
			want:      core.InterfaceState{Admin: core.StatusUp, Oper: core.StatusUp},
			wantCalls: 1,
		},
		{
			name:      "live_state_missing_leaves",
			handler:   statusHandler(http.StatusOK, `{"ietf-interfaces:interface":{"name":"Loopback046","admin-status":"up"}}`),
			want:      core.InterfaceState{Admin: core.StatusUp, Oper: core.StatusDown},
			wantCalls: 1,
		},
		{
			name: "fallback_enabled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == statePath {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ietf-interfaces:interface": map[string]any{"name": "Loopback046", "enabled": true},
				})
			},
			want:      core.InterfaceState{Admin: core.StatusUp, Oper: core.StatusDown},
			wantCalls: 2,
		},
		{
			name: "fallback_disabled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == statePath {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				fmt.Fprint(w, `{"ietf-interfaces:interface":{"enabled":false}}`)
			},
			want:      core.DownState(),
			wantCalls: 2,
		},
		{
			name:      "both_fail",
			handler:   statusHandler(http.StatusNotFound, ""),
			want:      core.DownState(),
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, tt.handler)

			assert.Equal(t, tt.want, c.AdminOperStatus(context.Background(), "Loopback046"))
			calls := rec.all()
			require.Len(t, calls, tt.wantCalls)
			assert.Equal(t, statePath, calls[0].path)
			if tt.wantCalls == 2 {
				assert.Equal(t, configPath, calls[1].path)
			}
		})
	}
}

func TestClient_RequiresExplicitInsecureOptIn(t *testing.T) {
	server := httptest.NewTLSServer(statusHandler(http.StatusOK, ""))
	defer server.Close()

	cfg := &config.DeviceConfig{
		RestconfBaseURL: server.URL + "/restconf/data",
		RestconfTimeout: 2 * time.Second,
	}

	assert.False(t, NewClient(cfg).InterfaceExists(context.Background(), "Loopback046"))

	cfg.InsecureSkipVerify = true
	assert.True(t, NewClient(cfg).InterfaceExists(context.Background(), "Loopback046"))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := &config.DeviceConfig{
		InsecureSkipVerify: true,
		RestconfBaseURL:    server.URL + "/restconf/data",
		RestconfTimeout:    50 * time.Millisecond,
	}

	c := NewClient(cfg)
	assert.False(t, c.InterfaceExists(context.Background(), "Loopback046"))
	assert.Equal(t, core.DownState(), c.AdminOperStatus(context.Background(), "Loopback046"))
}

func TestClient_CreateUsesCreateTimeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	cfg := &config.DeviceConfig{
		InsecureSkipVerify:    true,
		RestconfBaseURL:       server.URL + "/restconf/data",
		RestconfTimeout:       50 * time.Millisecond,
		RestconfCreateTimeout: 2 * time.Second,
	}

	c := NewClient(cfg)
	assert.True(t, c.CreateLoopback(context.Background(), "Loopback046", "172.0.46.1/24"))
	assert.False(t, c.SetEnabled(context.Background(), "Loopback046", false))
	assert.False(t, c.DeleteLoopback(context.Background(), "Loopback046"))
}
