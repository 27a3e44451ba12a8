package micropay

import "fmt"

// Every way a channel state can fail validation has its own error type
// so callers can switch on the failure kind.  Mismatch errors carry the
// found and the expected value for diagnosis.  None of these are ever
// retried or downgraded: any failure means the state, script or
// transaction stays untrusted.

type InvalidHexError struct {
	Value string
}

func (e *InvalidHexError) Error() string {
	return fmt.Sprintf("invalid hex data %q", e.Value)
}

type InvalidUnsignedError struct {
	Value int64
}

func (e *InvalidUnsignedError) Error() string {
	return fmt.Sprintf("invalid unsigned integer %d", e.Value)
}

type InvalidSequenceError struct {
	Value int64
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid sequence %d", e.Value)
}

type InvalidQuantityError struct {
	Value int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d", e.Value)
}

type InvalidPubKeyError struct {
	Value string
}

func (e *InvalidPubKeyError) Error() string {
	return fmt.Sprintf("invalid pubkey %q, want 33 byte compressed key", e.Value)
}

type InvalidHash160Error struct {
	Value string
}

func (e *InvalidHash160Error) Error() string {
	return fmt.Sprintf("invalid hash160 %q, want 20 bytes", e.Value)
}

// InvalidRawTxError reports transaction bytes the wire codec cannot
// deserialize.
type InvalidRawTxError struct {
	Value string
}

func (e *InvalidRawTxError) Error() string {
	return "malformed raw transaction"
}

// PubKeyMismatchError reports a payer or payee key disagreement between
// scripts, or between a script and an expectation.
type PubKeyMismatchError struct {
	Role     string
	Found    string
	Expected string
}

func (e *PubKeyMismatchError) Error() string {
	return fmt.Sprintf("%s pubkey mismatch: found %s, expected %s",
		e.Role, e.Found, e.Expected)
}

type SpendSecretHashMismatchError struct {
	Found    string
	Expected string
}

func (e *SpendSecretHashMismatchError) Error() string {
	return fmt.Sprintf("spend secret hash mismatch: found %s, expected %s",
		e.Found, e.Expected)
}

type AssetMismatchError struct {
	Found    string
	Expected string
}

func (e *AssetMismatchError) Error() string {
	return fmt.Sprintf("asset mismatch: found %s, expected %s",
		e.Found, e.Expected)
}

type SourceMismatchError struct {
	Found    string
	Expected string
}

func (e *SourceMismatchError) Error() string {
	return fmt.Sprintf("source mismatch: found %s, expected %s",
		e.Found, e.Expected)
}

type DestinationMismatchError struct {
	Found    string
	Expected string
}

func (e *DestinationMismatchError) Error() string {
	return fmt.Sprintf("destination mismatch: found %s, expected %s",
		e.Found, e.Expected)
}

// RevokeSecretMismatchError reports a revoked commit entry whose secret
// does not hash to the revocation hash its script commits to.
type RevokeSecretMismatchError struct {
	Script   string
	Found    string
	Expected string
}

func (e *RevokeSecretMismatchError) Error() string {
	return fmt.Sprintf("revoke secret hashes to %s, script commits to %s",
		e.Found, e.Expected)
}

// SchemaError reports a channel state that does not match the fixed
// state layout.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("state schema violation at %s: %v", e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DuplicateScriptError reports a commit script holding more than one
// live claim across the active and revoked sets.
type DuplicateScriptError struct {
	Script string
}

func (e *DuplicateScriptError) Error() string {
	return fmt.Sprintf("commit script used by more than one entry: %s", e.Script)
}

type MissingPayloadError struct{}

func (e *MissingPayloadError) Error() string {
	return "no data for given transaction"
}

// NotSendError reports a transaction whose payload decodes to some other
// message type than a send.
type NotSendError struct {
	TypeID int64
}

func (e *NotSendError) Error() string {
	return fmt.Sprintf("message type %d is not a send", e.TypeID)
}

type InvalidSignatureError struct {
	TxID string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature in transaction %s", e.TxID)
}

// LookupError wraps a failed ledger call.  Retry policy belongs to the
// ledger implementation, never to the validators.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

type AssetNotFoundError struct {
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset %s does not exist", e.Asset)
}
