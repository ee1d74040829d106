// Package wol builds and broadcasts Wake-on-LAN magic packets.
package wol

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/wakeboard/wakeboard/internal/errors"
)

// PacketSize is the fixed length of a magic packet: 6 sync bytes plus the
// 6-byte hardware address repeated 16 times.
const PacketSize = 102

// DefaultPorts are the UDP ports a wake packet is sent to. Both the echo
// port (7) and the discard port (9) are used, to be compatible with most
// wake-listener implementations.
var DefaultPorts = []int{7, 9}

// ParseHardwareAddr parses a MAC address given as colon- or hyphen-separated
// hex octets, case-insensitive. Separators are optional. Malformed input is
// rejected before any network I/O happens.
func ParseHardwareAddr(s string) (net.HardwareAddr, error) {
	cleaned := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s))
	raw, err := hex.DecodeString(strings.ToLower(cleaned))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWOL,
			fmt.Sprintf("Invalid hardware address %q", s),
			"Use six hex octets, e.g. AA:BB:CC:DD:EE:FF")
	}
	if len(raw) != 6 {
		return nil, errors.New(errors.ErrWOL,
			fmt.Sprintf("Invalid hardware address %q: got %d bytes, want 6", s, len(raw)),
			"Use six hex octets, e.g. AA:BB:CC:DD:EE:FF")
	}
	return net.HardwareAddr(raw), nil
}

// MagicPacket builds the 102-byte wake payload for a 6-byte hardware address.
func MagicPacket(hw net.HardwareAddr) []byte {
	packet := make([]byte, 0, PacketSize)
	for i := 0; i < 6; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < 16; i++ {
		packet = append(packet, hw...)
	}
	return packet
}

// Sender broadcasts wake packets on the local network segment.
// The zero value sends to the limited broadcast address on ports 7 and 9.
type Sender struct {
	// BroadcastAddr overrides the destination IP. Defaults to 255.255.255.255.
	BroadcastAddr net.IP
	// Ports overrides the destination ports. Defaults to DefaultPorts.
	Ports []int
}

// Wake parses the hardware address, builds the magic packet and sends it to
// every configured port. Address validation happens before a socket is
// opened, so malformed input never causes network I/O.
func (s *Sender) Wake(hardwareAddr string) error {
	hw, err := ParseHardwareAddr(hardwareAddr)
	if err != nil {
		return err
	}
	payload := MagicPacket(hw)

	addr := s.BroadcastAddr
	if addr == nil {
		addr = net.IPv4bcast
	}
	ports := s.Ports
	if len(ports) == 0 {
		ports = DefaultPorts
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrWOL,
			"Cannot open UDP socket for wake packet", "")
	}
	defer conn.Close()

	for _, port := range ports {
		if _, err := conn.WriteTo(payload, &net.UDPAddr{IP: addr, Port: port}); err != nil {
			return errors.WrapWithCode(err, errors.ErrWOL,
				fmt.Sprintf("Sending wake packet to %s:%d failed", addr, port),
				"Check that broadcast traffic is allowed on this network")
		}
	}
	return nil
}
