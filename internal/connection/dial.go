package connection

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"go.bug.st/serial"
)

// Endpoint 面板链路参数
type Endpoint struct {
	// Transport serial | tcp
	Transport   string
	SerialPort  string
	BaudRate    int
	Addr        string
	DialTimeout time.Duration
}

// Dial 打开串口（8N1）或 TCP 连接
func Dial(ctx context.Context, ep Endpoint) (io.ReadWriteCloser, error) {
	switch ep.Transport {
	case "serial", "":
		return OpenSerial(ep.SerialPort, ep.BaudRate)
	case "tcp":
		timeout := ep.DialTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		d := net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
		c, err := d.DialContext(ctx, "tcp", ep.Addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", ep.Addr, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", ep.Transport)
	}
}

// OpenSerial 打开串口；baud 为 0 时使用 9600
func OpenSerial(port string, baud int) (serial.Port, error) {
	if port == "" {
		return nil, fmt.Errorf("serial port is required")
	}
	if baud <= 0 {
		baud = 9600
	}
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("opening serial %s: %w", port, err)
	}
	return p, nil
}

// SerialPorts 列出可用串口
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
