package netconf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	baseNS       = "urn:ietf:params:xml:ns:netconf:base:1.0"
	interfacesNS = "urn:ietf:params:xml:ns:yang:ietf-interfaces"
	ipNS         = "urn:ietf:params:xml:ns:yang:ietf-ip"
	ianaIfTypeNS = "urn:ietf:params:xml:ns:yang:iana-if-type"

	softwareLoopback = "ianaift:softwareLoopback"
)

// okMarker is the literal success token looked for in edit-config replies.
var okMarker = []byte("<ok/>")

// configBody is the <config> element of an edit-config; it inherits the
// base namespace from the enclosing <rpc>.
type configBody struct {
	XMLName    xml.Name `xml:"config"`
	Interfaces interfaces
}

type interfaces struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:yang:ietf-interfaces interfaces"`
	Interface iface    `xml:"interface"`
}

type interfacesState struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:yang:ietf-interfaces interfaces-state"`
	Interface iface    `xml:"interface"`
}

type iface struct {
	NCNamespace string      `xml:"xmlns:nc,attr,omitempty"`
	Operation   string      `xml:"nc:operation,attr,omitempty"`
	Name        string      `xml:"name"`
	Type        *ifType     `xml:"type,omitempty"`
	Enabled     *bool       `xml:"enabled,omitempty"`
	IPv4        *ipv4Config `xml:"urn:ietf:params:xml:ns:yang:ietf-ip ipv4,omitempty"`
}

type ifType struct {
	IANA  string `xml:"xmlns:ianaift,attr"`
	Value string `xml:",chardata"`
}

type ipv4Config struct {
	Address address `xml:"address"`
}

type address struct {
	IP      string `xml:"ip"`
	Netmask string `xml:"netmask"`
}

// configFilter selects one interface from the configuration datastore.
func configFilter(name string) (string, error) {
	return encode(interfaces{Interface: iface{Name: name}})
}

// stateFilter selects one interface from the operational state tree.
func stateFilter(name string) (string, error) {
	return encode(interfacesState{Interface: iface{Name: name}})
}

func editConfig(i iface) (string, error) {
	return encode(configBody{Interfaces: interfaces{Interface: i}})
}

func createLoopbackConfig(name, ip, netmask string) (string, error) {
	enabled := true
	return editConfig(iface{
		Name:    name,
		Type:    &ifType{IANA: ianaIfTypeNS, Value: softwareLoopback},
		Enabled: &enabled,
		IPv4:    &ipv4Config{Address: address{IP: ip, Netmask: netmask}},
	})
}

func deleteInterfaceConfig(name string) (string, error) {
	return editConfig(iface{NCNamespace: baseNS, Operation: "delete", Name: name})
}

func setEnabledConfig(name string, enabled bool) (string, error) {
	return editConfig(iface{Name: name, Enabled: &enabled})
}

func encode(v any) (string, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(out), nil
}

func isOK(reply []byte) bool {
	return bytes.Contains(reply, okMarker)
}

// findLeaf returns the text of the first element named local in namespace ns.
func findLeaf(reply []byte, ns, local string) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(reply))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != ns || start.Name.Local != local {
			continue
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return "", false
		}
		return strings.TrimSpace(text), true
	}
}

// rpcErrorMessage extracts the first <error-message> of an <rpc-error>, if any.
func rpcErrorMessage(reply []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(reply))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "error-message" {
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return ""
			}
			return strings.TrimSpace(text)
		}
	}
}
