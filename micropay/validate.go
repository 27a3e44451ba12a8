// Package micropay validates micropayment channel state.  It decides,
// given a channel snapshot and read only ledger access, whether the
// state is internally consistent and consistent with the chain before
// any protocol action is allowed to proceed.  Everything here is a pure
// decision function: no mutation, no broadcasting, no retained state,
// safe to call concurrently for independent channels.
package micropay

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/F483/counterparty-lib/scripts"
)

// quantities live strictly below the total possible asset supply
const maxQuantity = 2100000000000000

var hexPattern = regexp.MustCompile("^[0-9a-f]*$")

var errRequired = errors.New("required field missing")

// CheckHex fails unless value is lowercase hex of even length.
func CheckHex(value string) error {
	if !hexPattern.MatchString(value) || len(value)%2 != 0 {
		return &InvalidHexError{Value: value}
	}
	return nil
}

// CheckUnsigned fails for negative numbers.
func CheckUnsigned(number int64) error {
	if number < 0 {
		return &InvalidUnsignedError{Value: number}
	}
	return nil
}

// CheckSequence fails unless number fits a script relative timelock.
func CheckSequence(number int64) error {
	if err := CheckUnsigned(number); err != nil {
		return err
	}
	if number > scripts.MaxSequence {
		return &InvalidSequenceError{Value: number}
	}
	return nil
}

// CheckQuantity fails unless number is a spendable asset quantity.
func CheckQuantity(number int64) error {
	if number <= 0 || number >= maxQuantity {
		return &InvalidQuantityError{Value: number}
	}
	return nil
}

// CheckPubKey fails unless value is a hex encoded compressed pubkey.
// Uncompressed 65 byte keys are rejected.
func CheckPubKey(pubkeyHex string) error {
	if err := CheckHex(pubkeyHex); err != nil {
		return err
	}
	if len(pubkeyHex) != 66 {
		return &InvalidPubKeyError{Value: pubkeyHex}
	}
	return nil
}

// CheckHash160 fails unless value is a hex encoded 20 byte hash.
func CheckHash160(hashHex string) error {
	if err := CheckHex(hashHex); err != nil {
		return err
	}
	if len(hashHex) != 40 {
		return &InvalidHash160Error{Value: hashHex}
	}
	return nil
}

// ValidateAsset fails unless the ledger's asset registry lists asset.
// Always a live lookup; callers wanting amortized cost must cache
// outside the validators.
func ValidateAsset(ledger Ledger, asset string) error {
	assets, err := ledger.GetAssets()
	if err != nil {
		return &LookupError{Op: "get_assets", Err: err}
	}
	for _, info := range assets {
		if info.AssetName == asset {
			return nil
		}
	}
	return &AssetNotFoundError{Asset: asset}
}

// ValidateDeposit fails unless depositScriptHex is a well formed funding
// script locked to the expected payee and spend secret hash.
func ValidateDeposit(depositScriptHex, expectedPayeePubKey,
	expectedSpendSecretHash string) error {

	if err := CheckHex(depositScriptHex); err != nil {
		return err
	}
	deposit, err := scripts.ParseDepositScript(depositScriptHex)
	if err != nil {
		return err
	}
	if deposit.SpendSecretHash != expectedSpendSecretHash {
		return &SpendSecretHashMismatchError{
			Found:    deposit.SpendSecretHash,
			Expected: expectedSpendSecretHash,
		}
	}
	if deposit.PayeePubKey != expectedPayeePubKey {
		return &PubKeyMismatchError{
			Role:     "payee",
			Found:    deposit.PayeePubKey,
			Expected: expectedPayeePubKey,
		}
	}
	return nil
}

// ValidateCommit fails unless commitScriptHex is a well formed commit
// script belonging to the given deposit: both must agree on the payer
// key, the payee key and the spend secret hash.  They are expected to
// differ in the revoke secret hash and the delay.
func ValidateCommit(commitScriptHex, depositScriptHex string) error {
	if err := CheckHex(commitScriptHex); err != nil {
		return err
	}
	if err := CheckHex(depositScriptHex); err != nil {
		return err
	}
	deposit, err := scripts.ParseDepositScript(depositScriptHex)
	if err != nil {
		return err
	}
	commit, err := scripts.ParseCommitScript(commitScriptHex)
	if err != nil {
		return err
	}
	if commit.PayeePubKey != deposit.PayeePubKey {
		return &PubKeyMismatchError{
			Role:     "payee",
			Found:    commit.PayeePubKey,
			Expected: deposit.PayeePubKey,
		}
	}
	if commit.PayerPubKey != deposit.PayerPubKey {
		return &PubKeyMismatchError{
			Role:     "payer",
			Found:    commit.PayerPubKey,
			Expected: deposit.PayerPubKey,
		}
	}
	if commit.SpendSecretHash != deposit.SpendSecretHash {
		return &SpendSecretHashMismatchError{
			Found:    commit.SpendSecretHash,
			Expected: deposit.SpendSecretHash,
		}
	}
	return nil
}

// SendTx is the normalized record of a validated send transaction.
type SendTx struct {
	Source      string
	Destination string
	BtcAmount   int64
	Fee         int64
	Data        string
	TypeID      int64
	Asset       string
	Quantity    int64
}

// ValidateSendTx fails unless rawtxHex is a ledger send.  Expected
// values are only compared when non empty.  With verifySig set, every
// input of the transaction must carry a valid signature over the output
// it spends, which costs one ledger round trip per input.
func ValidateSendTx(ledger Ledger, rawtxHex string,
	expectedAsset, expectedSource, expectedDest string,
	verifySig bool) (*SendTx, error) {

	info, err := ledger.GetTxInfo(rawtxHex)
	if err != nil {
		return nil, &LookupError{Op: "get_tx_info", Err: err}
	}
	if info.Data == "" {
		return nil, &MissingPayloadError{}
	}
	unpacked, err := ledger.Unpack(info.Data)
	if err != nil {
		return nil, &LookupError{Op: "unpack", Err: err}
	}
	if unpacked.TypeID != MessageTypeSend {
		return nil, &NotSendError{TypeID: unpacked.TypeID}
	}

	if expectedSource != "" && expectedSource != info.Source {
		return nil, &SourceMismatchError{
			Found:    info.Source,
			Expected: expectedSource,
		}
	}
	if expectedDest != "" && expectedDest != info.Destination {
		return nil, &DestinationMismatchError{
			Found:    info.Destination,
			Expected: expectedDest,
		}
	}
	if expectedAsset != "" && expectedAsset != unpacked.Asset {
		return nil, &AssetMismatchError{
			Found:    unpacked.Asset,
			Expected: expectedAsset,
		}
	}

	if verifySig {
		if err := verifyTxSignatures(ledger, rawtxHex); err != nil {
			return nil, err
		}
	}

	return &SendTx{
		Source:      info.Source,
		Destination: info.Destination,
		BtcAmount:   info.BtcAmount,
		Fee:         info.Fee,
		Data:        info.Data,
		TypeID:      unpacked.TypeID,
		Asset:       unpacked.Asset,
		Quantity:    unpacked.Quantity,
	}, nil
}

// ValidateCommitTx fails unless rawtxHex moves the channel asset from
// the deposit script's address to the commit script's address and
// nowhere else.
func ValidateCommitTx(ledger Ledger, rawtxHex, expectedAsset,
	depositScriptHex, commitScriptHex string,
	params *chaincfg.Params, verifySig bool) (*SendTx, error) {

	commitAddress, err := scripts.ScriptAddress(commitScriptHex, params)
	if err != nil {
		return nil, &scripts.InvalidScriptError{
			ScriptHex: commitScriptHex,
			Reason:    err.Error(),
		}
	}
	depositAddress, err := scripts.ScriptAddress(depositScriptHex, params)
	if err != nil {
		return nil, &scripts.InvalidScriptError{
			ScriptHex: depositScriptHex,
			Reason:    err.Error(),
		}
	}
	return ValidateSendTx(ledger, rawtxHex,
		expectedAsset, depositAddress, commitAddress, verifySig)
}

// ValidateState runs every channel invariant over a state snapshot,
// aborting at the first violation.  A partially valid channel must
// never pass for a mostly valid one, so nothing past the first failed
// check is even looked at.
func ValidateState(ledger Ledger, state *State,
	params *chaincfg.Params, verifySig bool) error {

	if err := checkStateSchema(state); err != nil {
		return err
	}

	// a commit script may hold at most one live claim
	seen := map[string]bool{}
	for _, active := range state.CommitsActive {
		if seen[active.Script] {
			return &DuplicateScriptError{Script: active.Script}
		}
		seen[active.Script] = true
	}
	for _, revoked := range state.CommitsRevoked {
		if seen[revoked.Script] {
			return &DuplicateScriptError{Script: revoked.Script}
		}
		seen[revoked.Script] = true
	}

	if err := ValidateAsset(ledger, state.Asset); err != nil {
		return err
	}

	deposit, err := scripts.ParseDepositScript(state.DepositScript)
	if err != nil {
		return err
	}

	for _, revoked := range state.CommitsRevoked {
		commit, err := scripts.ParseCommitScript(revoked.Script)
		if err != nil {
			return err
		}
		if commit.SpendSecretHash != deposit.SpendSecretHash {
			return &SpendSecretHashMismatchError{
				Found:    commit.SpendSecretHash,
				Expected: deposit.SpendSecretHash,
			}
		}
		found, err := scripts.Hash160Hex(revoked.RevokeSecret)
		if err != nil {
			return &InvalidHexError{Value: revoked.RevokeSecret}
		}
		if found != commit.RevokeSecretHash {
			return &RevokeSecretMismatchError{
				Script:   revoked.Script,
				Found:    found,
				Expected: commit.RevokeSecretHash,
			}
		}
	}

	for _, active := range state.CommitsActive {
		commit, err := scripts.ParseCommitScript(active.Script)
		if err != nil {
			return err
		}
		if commit.SpendSecretHash != deposit.SpendSecretHash {
			return &SpendSecretHashMismatchError{
				Found:    commit.SpendSecretHash,
				Expected: deposit.SpendSecretHash,
			}
		}
		_, err = ValidateCommitTx(ledger, active.RawTx, state.Asset,
			state.DepositScript, active.Script, params, verifySig)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkStateSchema enforces the fixed state layout: all fields present
// and every byte field lowercase even length hex.
func checkStateSchema(state *State) error {
	if state == nil {
		return &SchemaError{Field: "state", Err: errRequired}
	}
	if err := CheckHex(state.DepositScript); err != nil {
		return &SchemaError{Field: "deposit_script", Err: err}
	}
	if state.CommitsRequested == nil {
		return &SchemaError{Field: "commits_requested", Err: errRequired}
	}
	for i, script := range state.CommitsRequested {
		if err := CheckHex(script); err != nil {
			return &SchemaError{
				Field: fmt.Sprintf("commits_requested[%d]", i),
				Err:   err,
			}
		}
	}
	if state.CommitsActive == nil {
		return &SchemaError{Field: "commits_active", Err: errRequired}
	}
	for i, active := range state.CommitsActive {
		if err := CheckHex(active.RawTx); err != nil {
			return &SchemaError{
				Field: fmt.Sprintf("commits_active[%d].rawtx", i),
				Err:   err,
			}
		}
		if err := CheckHex(active.Script); err != nil {
			return &SchemaError{
				Field: fmt.Sprintf("commits_active[%d].script", i),
				Err:   err,
			}
		}
	}
	if state.CommitsRevoked == nil {
		return &SchemaError{Field: "commits_revoked", Err: errRequired}
	}
	for i, revoked := range state.CommitsRevoked {
		if err := CheckHex(revoked.Script); err != nil {
			return &SchemaError{
				Field: fmt.Sprintf("commits_revoked[%d].script", i),
				Err:   err,
			}
		}
		if err := CheckHex(revoked.RevokeSecret); err != nil {
			return &SchemaError{
				Field: fmt.Sprintf("commits_revoked[%d].revoke_secret", i),
				Err:   err,
			}
		}
	}
	return nil
}
