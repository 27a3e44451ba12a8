package micropay

import (
	"github.com/getlantern/deepcopy"

	"github.com/F483/counterparty-lib/scripts"
)

// State is a snapshot of one micropayment channel as the control layer
// persists it.  The validators only ever read it.
type State struct {
	Asset            string          `json:"asset"`
	DepositScript    string          `json:"deposit_script"`
	CommitsRequested []string        `json:"commits_requested"`
	CommitsActive    []ActiveCommit  `json:"commits_active"`
	CommitsRevoked   []RevokedCommit `json:"commits_revoked"`
}

// ActiveCommit is a currently enforceable commitment: the commit script
// and the transaction funding it from the deposit.
type ActiveCommit struct {
	RawTx  string `json:"rawtx"`
	Script string `json:"script"`
}

// RevokedCommit is a superseded commitment together with the revoke
// secret the payee disclosed when revoking it.
type RevokedCommit struct {
	Script       string `json:"script"`
	RevokeSecret string `json:"revoke_secret"`
}

// Clone returns an independent deep copy, so a caller can keep mutating
// its own state while a snapshot is validated or stored.
func (s *State) Clone() (*State, error) {
	clone := &State{}
	if err := deepcopy.Copy(clone, s); err != nil {
		return nil, err
	}
	return clone, nil
}

// Handle returns the identifier a channel is tracked under, the hash160
// of its deposit script.
func (s *State) Handle() (string, error) {
	return scripts.Hash160Hex(s.DepositScript)
}
