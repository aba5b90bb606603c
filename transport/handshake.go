// Package transport
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	json "github.com/json-iterator/go"

	"github.com/seqio/framewire/framing"
)

/* handshake protocol
magic:   1 byte
dataLen: 2 bytes
data:    > 0 bytes, JSON hello
*/

const handshakeMagic byte = 0x7C

type clientHello struct {
	Host    string         `json:"host"`
	Secret  string         `json:"secret,omitempty"`
	Framing framing.Config `json:"framing"`
}

type serverHello struct {
	Host    string         `json:"host"`
	Id      string         `json:"id"`
	Framing framing.Config `json:"framing"`
}

// ClientHandshake proposes a framing config for the connection and
// returns the peer host, the assigned connection id and the config the
// server settled on. The handshake runs before any framed traffic, so
// both sides build their strategies from the same agreed config.
func ClientHandshake(c io.ReadWriter, host string, credential string, proposed framing.Config) (peer string, id string, agreed framing.Config, err error) {
	r := &clientHello{
		Host:    host,
		Secret:  credential,
		Framing: proposed,
	}

	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	err = writeData(c, data)
	if err != nil {
		return
	}

	buffer, err := readData(c)
	if err != nil {
		return
	}

	var s = &serverHello{}
	err = json.Unmarshal(buffer, s)
	if err != nil {
		return
	}
	if _, err = s.Framing.Strategy(); err != nil {
		err = fmt.Errorf("client handshake: server sent unusable framing config, %v", err)
		return
	}
	return s.Host, s.Id, s.Framing, nil
}

// ServerHandshake validates the client hello and answers with the
// config the connection will use. A nil accept callback takes the
// client's proposal as-is; either way the answered config must build a
// valid strategy.
func ServerHandshake(c io.ReadWriter, host string, id string, validator func(credential string) error, accept func(framing.Config) (framing.Config, error)) (peer string, agreed framing.Config, err error) {
	data, err := readData(c)
	if err != nil {
		return
	}

	var r = &clientHello{}
	err = json.Unmarshal(data, r)
	if err != nil {
		return
	}

	if validator != nil {
		if err = validator(r.Secret); err != nil {
			err = fmt.Errorf("server handshake credential validation failure, %v", err)
			return
		}
	}

	agreed = r.Framing
	if accept != nil {
		agreed, err = accept(r.Framing)
		if err != nil {
			err = fmt.Errorf("server handshake framing config refused, %v", err)
			return
		}
	}
	if _, err = agreed.Strategy(); err != nil {
		err = fmt.Errorf("server handshake: agreed framing config unusable, %v", err)
		return
	}

	var s = &serverHello{
		Host:    host,
		Id:      id,
		Framing: agreed,
	}

	data, err = json.Marshal(s)
	if err != nil {
		return
	}

	err = writeData(c, data)
	if err != nil {
		return
	}

	return r.Host, agreed, nil
}

func writeData(c io.Writer, data []byte) error {
	buffer := make([]byte, 3+len(data))
	buffer[0] = handshakeMagic
	binary.BigEndian.PutUint16(buffer[1:], uint16(len(data)))
	copy(buffer[3:], data)
	_, err := c.Write(buffer)
	return err
}

func readData(c io.Reader) ([]byte, error) {
	buf := make([]byte, 3)
	_, err := io.ReadFull(c, buf)
	if err != nil {
		return nil, err
	}

	if buf[0] != handshakeMagic {
		return nil, errors.New("not a handshake package")
	}
	dataLen := int(binary.BigEndian.Uint16(buf[1:]))
	buf = make([]byte, dataLen)

	_, err = io.ReadFull(c, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
