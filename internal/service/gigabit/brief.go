package gigabit

import (
	"fmt"

	"github.com/sirikothe/gotextfsm"

	"github.com/sandevgo/routerbot/internal/core"
)

// briefTemplate reads IOS "show ip interface brief" output:
//
//	Interface              IP-Address      OK? Method Status                Protocol
//	GigabitEthernet1       10.0.15.61      YES DHCP   up                    up
//	GigabitEthernet2       unassigned      YES unset  administratively down down
//
// Status may span two words, so it takes one optional single-spaced word
// before the Protocol column.
const briefTemplate = `Value INTF (\S+)
Value IPADDR (\S+)
Value STATUS (\S+(?: \S+)?)
Value PROTO (\S+)

Start
  ^${INTF}\s+${IPADDR}\s+(?:YES|NO)\s+\S+\s+${STATUS}\s+${PROTO}\s*$$ -> Record
`

// ParseBrief turns brief output into rows. Lines that are not interface
// rows (prompts, headers, errors) are skipped.
func ParseBrief(output string) ([]core.InterfaceRow, error) {
	// The FSM keeps per-parse state in its values, so it is built per call.
	fsm := gotextfsm.TextFSM{}
	if err := fsm.ParseString(briefTemplate); err != nil {
		return nil, fmt.Errorf("brief template: %w", err)
	}

	parser := gotextfsm.ParserOutput{}
	if err := parser.ParseTextString(output, fsm, true); err != nil {
		return nil, fmt.Errorf("parse brief: %w", err)
	}

	rows := make([]core.InterfaceRow, 0, len(parser.Dict))
	for _, rec := range parser.Dict {
		rows = append(rows, core.InterfaceRow{
			Intf:   field(rec, "INTF"),
			IP:     field(rec, "IPADDR"),
			Status: field(rec, "STATUS"),
			Proto:  field(rec, "PROTO"),
		})
	}
	return rows, nil
}

func field(rec map[string]interface{}, name string) string {
	s, _ := rec[name].(string)
	return s
}
