// Package s2c holds clientbound packet schemas.
package s2c

import (
	"io"

	"mccore/protocol/mcnet"
)

// ServerStatus is the JSON payload carried inside a StatusResponse. Optional
// fields are omitted from the wire when unset (camelCase field names per
// the protocol's convention).
type ServerStatus struct {
	Version     StatusVersion  `json:"version"`
	Players     *StatusPlayers `json:"players,omitempty"`
	Description string         `json:"description,omitempty"`
	Favicon     string         `json:"favicon,omitempty"`
	EnforcesSecureChat *bool   `json:"enforcesSecureChat,omitempty"`
}

type StatusVersion struct {
	Name     string `json:"name"`
	Protocol uint32 `json:"protocol"`
}

type StatusPlayers struct {
	Max    uint32               `json:"max"`
	Online uint32               `json:"online"`
	Sample []StatusPlayerSample `json:"sample,omitempty"`
}

type StatusPlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// StatusResponse answers a StatusRequest (server list ping).
type StatusResponse struct {
	Status ServerStatus
}

func (p *StatusResponse) ID() int32 { return 0x00 }

func (p *StatusResponse) Encode(w io.Writer) error {
	return mcnet.WriteJSONString(w, p.Status, 32767)
}

func (p *StatusResponse) Decode(r io.Reader) error {
	status, err := mcnet.ReadJSONString[ServerStatus](r, 32767)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

// PongResponse echoes the timestamp from a PingRequest unchanged.
type PongResponse struct {
	Timestamp int64
}

func (p *PongResponse) ID() int32 { return 0x01 }

func (p *PongResponse) Encode(w io.Writer) error {
	return mcnet.WriteInt64(w, p.Timestamp)
}

func (p *PongResponse) Decode(r io.Reader) error {
	v, err := mcnet.ReadInt64(r)
	if err != nil {
		return err
	}
	p.Timestamp = v
	return nil
}
