package wol

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakeboard/wakeboard/internal/errors"
)

func TestParseHardwareAddr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "colon separated", input: "AA:BB:CC:DD:EE:FF", want: "aa:bb:cc:dd:ee:ff"},
		{name: "hyphen separated", input: "aa-bb-cc-dd-ee-ff", want: "aa:bb:cc:dd:ee:ff"},
		{name: "lowercase", input: "de:ad:be:ef:00:01", want: "de:ad:be:ef:00:01"},
		{name: "no separators", input: "AABBCCDDEEFF", want: "aa:bb:cc:dd:ee:ff"},
		{name: "odd hex length", input: "AA:BB:CC:DD:EE:F", wantErr: true},
		{name: "non-hex characters", input: "ZZ:BB:CC:DD:EE:FF", wantErr: true},
		{name: "too short", input: "AA:BB:CC:DD", wantErr: true},
		{name: "too long", input: "AA:BB:CC:DD:EE:FF:00:11", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw, err := ParseHardwareAddr(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrWOL))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, hw.String())
		})
	}
}

func TestMagicPacket(t *testing.T) {
	hw, err := ParseHardwareAddr("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	packet := MagicPacket(hw)
	require.Len(t, packet, PacketSize)

	// 6 bytes of 0xFF
	for i := 0; i < 6; i++ {
		assert.Equal(t, byte(0xFF), packet[i], "sync byte %d", i)
	}
	// followed by the address repeated 16 times
	for rep := 0; rep < 16; rep++ {
		offset := 6 + rep*6
		assert.Equal(t, []byte(hw), packet[offset:offset+6], "repetition %d", rep)
	}
}

// listenUDP opens a loopback UDP listener and returns it with its port.
func listenUDP(t *testing.T) (net.PacketConn, int) {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func TestSenderWake_SendsToAllPorts(t *testing.T) {
	conn7, port7 := listenUDP(t)
	conn9, port9 := listenUDP(t)

	s := &Sender{
		BroadcastAddr: net.IPv4(127, 0, 0, 1),
		Ports:         []int{port7, port9},
	}
	require.NoError(t, s.Wake("AA:BB:CC:DD:EE:FF"))

	expected := MagicPacket(net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	for _, conn := range []net.PacketConn{conn7, conn9} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		buf := make([]byte, 256)
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		assert.Equal(t, expected, buf[:n])
	}
}

func TestSenderWake_MalformedAddrFailsBeforeSend(t *testing.T) {
	conn, port := listenUDP(t)

	s := &Sender{
		BroadcastAddr: net.IPv4(127, 0, 0, 1),
		Ports:         []int{port},
	}
	err := s.Wake("AA:BB:CC:DD:EE:F")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrWOL))

	// Nothing must have been sent.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	buf := make([]byte, 256)
	_, _, readErr := conn.ReadFrom(buf)
	assert.Error(t, readErr, "no packet should arrive for a malformed address")
}
