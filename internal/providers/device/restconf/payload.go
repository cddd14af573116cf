package restconf

type interfaceDocument struct {
	Interface interfaceBody `json:"ietf-interfaces:interface"`
}

type interfaceBody struct {
	Name    string    `json:"name,omitempty"`
	Type    string    `json:"type,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"`
	IPv4    *ipv4Body `json:"ietf-ip:ipv4,omitempty"`
}

type ipv4Body struct {
	Address []addressBody `json:"address"`
}

type addressBody struct {
	IP      string `json:"ip"`
	Netmask string `json:"netmask"`
}
