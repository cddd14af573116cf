// Package test holds a simulated lab router for end-to-end tests.
package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

const (
	eom              = "]]>]]>"
	restconfPrefix   = "/restconf/data/"
	interfacesPath   = "ietf-interfaces:interfaces/interface="
	interfacesStPath = "ietf-interfaces:interfaces-state/interface="
)

var nameRx = regexp.MustCompile(`<name>([^<]+)</name>`)

type Interface struct {
	Name    string
	IP      string
	Netmask string
	Enabled bool
}

// Router keeps interface configuration the way IOS XE would and answers
// RESTCONF, NETCONF and CLI requests against it.
type Router struct {
	mu         sync.Mutex
	interfaces map[string]*Interface
	// Physical is the "show ip interface brief" status per GigabitEthernet.
	Physical [4]string
}

func NewRouter() *Router {
	return &Router{
		interfaces: make(map[string]*Interface),
		Physical:   [4]string{"up", "up", "down", "administratively down"},
	}
}

func (r *Router) Get(name string) (Interface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.interfaces[name]
	if !ok {
		return Interface{}, false
	}
	return *i, true
}

func (r *Router) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]string, 0, len(r.interfaces))
	for n := range r.interfaces {
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}

// RestconfServer serves /restconf/data over TLS with a self-signed certificate.
func (r *Router) RestconfServer(t *testing.T, user, pass string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if u, p, ok := req.BasicAuth(); !ok || u != user || p != pass {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r.serveRestconf(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (r *Router) serveRestconf(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, restconfPrefix)
	w.Header().Set("Content-Type", "application/yang-data+json")

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case strings.HasPrefix(path, interfacesStPath):
		i, ok := r.interfaces[strings.TrimPrefix(path, interfacesStPath)]
		if !ok || req.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		status := "down"
		if i.Enabled {
			status = "up"
		}
		writeJSON(w, map[string]any{"ietf-interfaces:interface": map[string]any{
			"name": i.Name, "admin-status": status, "oper-status": status,
		}})

	case strings.HasPrefix(path, interfacesPath):
		name := strings.TrimPrefix(path, interfacesPath)
		i, exists := r.interfaces[name]

		switch req.Method {
		case http.MethodGet:
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(w, map[string]any{"ietf-interfaces:interface": map[string]any{
				"name": i.Name, "enabled": i.Enabled,
			}})
		case http.MethodPut:
			body, _ := io.ReadAll(req.Body)
			doc := gjson.GetBytes(body, "ietf-interfaces:interface")
			r.interfaces[name] = &Interface{
				Name:    name,
				IP:      doc.Get(`ietf-ip:ipv4.address.0.ip`).String(),
				Netmask: doc.Get(`ietf-ip:ipv4.address.0.netmask`).String(),
				Enabled: doc.Get("enabled").Bool(),
			}
			if exists {
				w.WriteHeader(http.StatusNoContent)
			} else {
				w.WriteHeader(http.StatusCreated)
			}
		case http.MethodPatch:
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			body, _ := io.ReadAll(req.Body)
			i.Enabled = gjson.GetBytes(body, "ietf-interfaces:interface.enabled").Bool()
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(r.interfaces, name)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// ServeNetconf speaks NETCONF 1.0 on the "netconf" subsystem until the
// client drops the channel.
func (r *Router) ServeNetconf(name string, ch io.ReadWriter) {
	if name != "netconf" {
		return
	}

	fmt.Fprint(ch, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><capabilities>`+
		`<capability>urn:ietf:params:netconf:base:1.0</capability></capabilities>`+
		`<session-id>7</session-id></hello>`+eom)

	rd := bufio.NewReader(ch)
	for {
		msg, err := readFramed(rd)
		if err != nil {
			return
		}
		switch {
		case strings.Contains(msg, "<hello"):
			continue
		default:
			fmt.Fprint(ch, reply(msg, r.netconfRPC(msg)))
		}
	}
}

func (r *Router) netconfRPC(msg string) string {
	m := nameRx.FindStringSubmatch(msg)
	if m == nil {
		return rpcError("missing interface name")
	}
	name := m[1]

	r.mu.Lock()
	defer r.mu.Unlock()
	i, exists := r.interfaces[name]

	switch {
	case strings.Contains(msg, "<get>") && strings.Contains(msg, "interfaces-state"):
		if !exists {
			return "<data/>"
		}
		status := "down"
		if i.Enabled {
			status = "up"
		}
		return `<data><interfaces-state xmlns="urn:ietf:params:xml:ns:yang:ietf-interfaces"><interface>` +
			"<name>" + name + "</name><admin-status>" + status + "</admin-status><oper-status>" + status +
			"</oper-status></interface></interfaces-state></data>"

	case strings.Contains(msg, "<get>"):
		if !exists {
			return "<data/>"
		}
		return `<data><interfaces xmlns="urn:ietf:params:xml:ns:yang:ietf-interfaces"><interface>` +
			"<name>" + name + "</name></interface></interfaces></data>"

	case strings.Contains(msg, "<edit-config>"):
		switch {
		case strings.Contains(msg, `operation="delete"`):
			if !exists {
				return rpcError("data-missing")
			}
			delete(r.interfaces, name)
		case strings.Contains(msg, "<type"):
			r.interfaces[name] = &Interface{
				Name:    name,
				IP:      leaf(msg, "ip"),
				Netmask: leaf(msg, "netmask"),
				Enabled: leaf(msg, "enabled") == "true",
			}
		default:
			if !exists {
				return rpcError("data-missing")
			}
			i.Enabled = leaf(msg, "enabled") == "true"
		}
		return "<ok/>"
	}
	return rpcError("operation-not-supported")
}

// ExecCLI answers the commands the bot runs over an SSH exec channel.
func (r *Router) ExecCLI(cmd string) (string, uint32) {
	if strings.TrimSpace(cmd) != "show ip interface brief" {
		return "% Invalid input detected at '^' marker.\n", 1
	}

	var b bytes.Buffer
	b.WriteString("Interface              IP-Address      OK? Method Status                Protocol\n")
	for idx, status := range r.Physical {
		proto := "up"
		if status != "up" {
			proto = "down"
		}
		fmt.Fprintf(&b, "GigabitEthernet%-7d 10.0.15.%-7d YES DHCP   %-21s %s\n", idx+1, 61+idx, status, proto)
	}
	for _, name := range r.names() {
		i, _ := r.Get(name)
		fmt.Fprintf(&b, "%-22s %-15s YES manual up                    up\n", name, i.IP)
	}
	return b.String(), 0
}

func readFramed(rd *bufio.Reader) (string, error) {
	var buf strings.Builder
	for {
		line, err := rd.ReadString('>')
		buf.WriteString(line)
		if strings.HasSuffix(buf.String(), eom) {
			return strings.TrimSuffix(buf.String(), eom), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func reply(req, body string) string {
	id := ""
	if m := regexp.MustCompile(`message-id="([^"]+)"`).FindStringSubmatch(req); m != nil {
		id = m[1]
	}
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="` + id + `">` +
		body + "</rpc-reply>" + eom
}

func rpcError(msg string) string {
	return "<rpc-error><error-type>application</error-type><error-tag>" + msg +
		"</error-tag><error-severity>error</error-severity></rpc-error>"
}

func leaf(msg, name string) string {
	m := regexp.MustCompile(`<` + name + `>([^<]*)</` + name + `>`).FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	return m[1]
}
