// Package protocols assembles the protocol descriptors and structure registry
// used by the decoding tools.
package protocols

import (
	"fmt"
	"strings"

	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocols/authentication"
	"github.com/danmuck/nexrmc/internal/protocols/matchmake"
)

const (
	TitleDefault = ""
	TitleMK8     = "mk8"
)

// Titles lists the accepted title names.
func Titles() []string { return []string{TitleDefault, TitleMK8} }

// NewRegistry returns a registry with the common structures and every
// structure the known protocols carry inside AnyDataHolder.
func NewRegistry() *nex.Registry {
	reg := nex.NewRegistry()
	authentication.Register(reg)
	return reg
}

// Selection picks the protocol set for a title. A zero
// MK8ExtraParticipantsMethod keeps the built-in method id.
type Selection struct {
	Title                      string
	MK8ExtraParticipantsMethod uint32
}

// Protocols returns the selected protocol set. Titles only differ in the
// methods they add to shared protocol ids.
func (sel Selection) Protocols() ([]*dispatch.Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(sel.Title)) {
	case TitleDefault:
		return []*dispatch.Protocol{authentication.Protocol, matchmake.Protocol}, nil
	case TitleMK8:
		mk8 := matchmake.MK8Protocol
		if id := sel.MK8ExtraParticipantsMethod; id != 0 && id != matchmake.MethodJoinMatchmakeSessionWithExtraParticipants {
			var err error
			if mk8, err = matchmake.NewMK8Protocol(id); err != nil {
				return nil, err
			}
		}
		return []*dispatch.Protocol{authentication.Protocol, mk8}, nil
	default:
		return nil, fmt.Errorf("protocols: unknown title %q (known: %q)", sel.Title, Titles())
	}
}

// Dispatcher builds a dispatcher over NewRegistry and the selected protocols.
func (sel Selection) Dispatcher(opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	set, err := sel.Protocols()
	if err != nil {
		return nil, err
	}
	return dispatch.New(NewRegistry(), set, opts...)
}

// ForTitle returns the protocol set for title with default method ids.
func ForTitle(title string) ([]*dispatch.Protocol, error) {
	return Selection{Title: title}.Protocols()
}

// NewDispatcher builds a dispatcher for title with default method ids.
func NewDispatcher(title string, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	return Selection{Title: title}.Dispatcher(opts...)
}
