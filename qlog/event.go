package qlog

import (
	"time"

	"github.com/francoispqt/gojay"
)

type eventDetails interface {
	Category() string
	Name() string
	gojay.MarshalerJSONObject
}

type event struct {
	RelativeTime time.Duration
	eventDetails
}

var _ gojay.MarshalerJSONObject = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("time", milliseconds(e.RelativeTime))
	enc.StringKey("name", e.Category()+":"+e.Name())
	enc.ObjectKey("data", e.eventDetails)
}

func milliseconds(dur time.Duration) float64 { return float64(dur.Nanoseconds()) / 1e6 }

type eventConnectionIDIssued struct {
	SequenceNumber uint64
	ConnectionID   string
}

var _ eventDetails = eventConnectionIDIssued{}

func (e eventConnectionIDIssued) Category() string { return "connectivity" }
func (e eventConnectionIDIssued) Name() string     { return "connection_id_issued" }
func (e eventConnectionIDIssued) IsNil() bool      { return false }

func (e eventConnectionIDIssued) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("sequence_number", e.SequenceNumber)
	enc.StringKey("connection_id", e.ConnectionID)
}

type eventConnectionIDRetired struct {
	SequenceNumber uint64
	ConnectionID   string
}

var _ eventDetails = eventConnectionIDRetired{}

func (e eventConnectionIDRetired) Category() string { return "connectivity" }
func (e eventConnectionIDRetired) Name() string     { return "connection_id_retired" }
func (e eventConnectionIDRetired) IsNil() bool      { return false }

func (e eventConnectionIDRetired) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("sequence_number", e.SequenceNumber)
	enc.StringKey("connection_id", e.ConnectionID)
}

type eventConnectionIDRemoved struct {
	SequenceNumber uint64
	ConnectionID   string
}

var _ eventDetails = eventConnectionIDRemoved{}

func (e eventConnectionIDRemoved) Category() string { return "connectivity" }
func (e eventConnectionIDRemoved) Name() string     { return "connection_id_removed" }
func (e eventConnectionIDRemoved) IsNil() bool      { return false }

func (e eventConnectionIDRemoved) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("sequence_number", e.SequenceNumber)
	enc.StringKey("connection_id", e.ConnectionID)
}
