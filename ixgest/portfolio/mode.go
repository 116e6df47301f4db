package portfolio

import (
	"os"
	"strings"

	"github.com/teranos/folio/errors"
)

// Mode selects between fetching from GitHub and copying the fixture.
type Mode int

const (
	ModeLive Mode = iota
	ModeMock
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeMock:
		return "mock"
	default:
		return "unknown"
	}
}

// LookupCredential reads the credential variable, distinguishing unset from empty.
func LookupCredential(envVar string) (token string, set bool) {
	return os.LookupEnv(envVar)
}

// ResolveMode picks the run mode.
//
// forceMock wins without looking at the credential. An unset credential
// selects mock mode. A credential that is set but blank is an error:
// running live with a broken token must not silently degrade to sample data.
func ResolveMode(forceMock bool, token string, tokenSet bool) (Mode, error) {
	if forceMock || !tokenSet {
		return ModeMock, nil
	}
	if strings.TrimSpace(token) == "" {
		return ModeLive, errors.ErrEmptyCredential
	}
	return ModeLive, nil
}
