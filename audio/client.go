package audio

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hypebeast/go-osc/osc"
)

// Group the engine places every synth node in. Bare scsynth only has
// the root group, so the engine creates this one at connect time.
const defaultGroup int32 = 1

// Param is one named control value for a synth node
type Param struct {
	Name  string
	Value float32
}

// Client speaks the scsynth command protocol over UDP. It only sends;
// server replies are not read. Timed sends go out as bundles stamped
// a little into the future so the server lines them up sample
// accurately.
type Client struct {
	addr string
	osc  *osc.Client
}

// NewClient dials nothing yet, it just parses the host:port pair. UDP
// sends fail per packet, not at construction.
func NewClient(addr string) (*Client, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("server address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("server port %q: %w", portStr, err)
	}
	return &Client{addr: addr, osc: osc.NewClient(host, port)}, nil
}

// Addr returns the configured server address
func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) send(offsetSecs float64, msg *osc.Message) error {
	if offsetSecs <= 0 {
		return c.osc.Send(msg)
	}
	when := time.Now().Add(time.Duration(offsetSecs * float64(time.Second)))
	bundle := osc.NewBundle(when)
	if err := bundle.Append(msg); err != nil {
		return err
	}
	return c.osc.Send(bundle)
}

// SynthNew spawns a synth node at the tail of the engine group
func (c *Client) SynthNew(def string, nodeID int32, offsetSecs float64, params ...Param) error {
	msg := osc.NewMessage("/s_new")
	msg.Append(def)
	msg.Append(nodeID)
	msg.Append(int32(1)) // add to tail
	msg.Append(defaultGroup)
	for _, p := range params {
		msg.Append(p.Name)
		msg.Append(p.Value)
	}
	return c.send(offsetSecs, msg)
}

// NodeSet updates control values on a running node
func (c *Client) NodeSet(nodeID int32, offsetSecs float64, params ...Param) error {
	msg := osc.NewMessage("/n_set")
	msg.Append(nodeID)
	for _, p := range params {
		msg.Append(p.Name)
		msg.Append(p.Value)
	}
	return c.send(offsetSecs, msg)
}

// NodeFree removes a node immediately, skipping its release envelope
func (c *Client) NodeFree(nodeID int32) error {
	msg := osc.NewMessage("/n_free")
	msg.Append(nodeID)
	return c.send(0, msg)
}

// GroupNew creates a group at the head of the root group
func (c *Client) GroupNew(groupID int32) error {
	msg := osc.NewMessage("/g_new")
	msg.Append(groupID)
	msg.Append(int32(0)) // add to head
	msg.Append(int32(0)) // root group
	return c.send(0, msg)
}

// GroupFreeAll frees every node in a group, silencing it
func (c *Client) GroupFreeAll(groupID int32) error {
	msg := osc.NewMessage("/g_freeAll")
	msg.Append(groupID)
	return c.send(0, msg)
}

// ControlSet writes a value to a control bus
func (c *Client) ControlSet(bus int32, value float32) error {
	msg := osc.NewMessage("/c_set")
	msg.Append(bus)
	msg.Append(value)
	return c.send(0, msg)
}

// NodeMapControl maps a node control to read from a control bus
func (c *Client) NodeMapControl(nodeID int32, control string, bus int32) error {
	msg := osc.NewMessage("/n_map")
	msg.Append(nodeID)
	msg.Append(control)
	msg.Append(bus)
	return c.send(0, msg)
}

// BufferAllocRead allocates a buffer and fills it from a sound file
func (c *Client) BufferAllocRead(bufferID int32, path string) error {
	msg := osc.NewMessage("/b_allocRead")
	msg.Append(bufferID)
	msg.Append(path)
	msg.Append(int32(0)) // start frame
	msg.Append(int32(0)) // whole file
	return c.send(0, msg)
}

// BufferFree releases a buffer on the server
func (c *Client) BufferFree(bufferID int32) error {
	msg := osc.NewMessage("/b_free")
	msg.Append(bufferID)
	return c.send(0, msg)
}

// DefReceive sends a compiled synthdef for the server to load
func (c *Client) DefReceive(data []byte) error {
	msg := osc.NewMessage("/d_recv")
	msg.Append(data)
	return c.send(0, msg)
}

// Status asks the server for a status reply. We never read the reply;
// this exists so a packet capture or server log shows signs of life.
func (c *Client) Status() error {
	return c.send(0, osc.NewMessage("/status"))
}
