// Package scripts builds and decodes the bitcoin scripts used by
// micropayment channels: the deposit script funding a channel and the
// commit scripts created for each payment.  Scripts only round trip
// through one canonical encoding, so anything a peer hands us is
// tokenized, template matched and re-encoded before it is accepted.
package scripts

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// MaxSequence is the highest relative timelock usable in channel scripts.
// Values above 16 bits would collide with the BIP 68 disable and type flags.
const MaxSequence = 0xffff

const (
	pubKeyLen  = 33
	hash160Len = 20
)

// DepositScript holds the parameters recovered from a channel funding
// script.  The payer can spend it together with the payee via the 2-of-2
// branch, alone once the spend secret leaks, or alone after ExpireTime.
type DepositScript struct {
	PayerPubKey     string
	PayeePubKey     string
	SpendSecretHash string
	ExpireTime      uint32
}

// CommitScript holds the parameters recovered from a commit script.  The
// payee can spend it with the spend secret after DelayTime, the payer can
// seize it immediately with the matching revoke secret.
type CommitScript struct {
	PayerPubKey      string
	PayeePubKey      string
	SpendSecretHash  string
	RevokeSecretHash string
	DelayTime        uint32
}

// InvalidScriptError reports a script that failed template matching.
type InvalidScriptError struct {
	ScriptHex string
	Reason    string
}

func (e *InvalidScriptError) Error() string {
	return fmt.Sprintf("invalid channel script: %s", e.Reason)
}

// CompileDepositScript builds the canonical funding script for a channel.
func CompileDepositScript(
	payerPubKey, payeePubKey, spendSecretHash string,
	expireTime uint32) (string, error) {

	payer, err := decodeField(payerPubKey, pubKeyLen, "payer pubkey")
	if err != nil {
		return "", err
	}
	payee, err := decodeField(payeePubKey, pubKeyLen, "payee pubkey")
	if err != nil {
		return "", err
	}
	spendHash, err := decodeField(spendSecretHash, hash160Len, "spend secret hash")
	if err != nil {
		return "", err
	}
	if expireTime > MaxSequence {
		return "", fmt.Errorf("expire time %d above max sequence %d",
			expireTime, MaxSequence)
	}
	script, err := compileDeposit(payer, payee, spendHash, expireTime)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// CompileCommitScript builds the canonical commit script for one payment.
func CompileCommitScript(
	payerPubKey, payeePubKey, spendSecretHash, revokeSecretHash string,
	delayTime uint32) (string, error) {

	payer, err := decodeField(payerPubKey, pubKeyLen, "payer pubkey")
	if err != nil {
		return "", err
	}
	payee, err := decodeField(payeePubKey, pubKeyLen, "payee pubkey")
	if err != nil {
		return "", err
	}
	spendHash, err := decodeField(spendSecretHash, hash160Len, "spend secret hash")
	if err != nil {
		return "", err
	}
	revokeHash, err := decodeField(revokeSecretHash, hash160Len, "revoke secret hash")
	if err != nil {
		return "", err
	}
	if delayTime > MaxSequence {
		return "", fmt.Errorf("delay time %d above max sequence %d",
			delayTime, MaxSequence)
	}
	script, err := compileCommit(payer, payee, spendHash, revokeHash, delayTime)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// ParseDepositScript recovers the funding parameters from an untrusted
// script.  Only the canonical encoding produced by CompileDepositScript
// is accepted.
func ParseDepositScript(scriptHex string) (*DepositScript, error) {
	script, ops, err := tokenizeHex(scriptHex)
	if err != nil {
		return nil, &InvalidScriptError{ScriptHex: scriptHex, Reason: err.Error()}
	}

	r := opReader{ops: ops}
	r.op(txscript.OP_IF)
	r.op(txscript.OP_2)
	payer := r.data(pubKeyLen)
	payee := r.data(pubKeyLen)
	r.op(txscript.OP_2)
	r.op(txscript.OP_CHECKMULTISIG)
	r.op(txscript.OP_ELSE)
	r.op(txscript.OP_IF)
	r.op(txscript.OP_HASH160)
	spendHash := r.data(hash160Len)
	r.op(txscript.OP_EQUALVERIFY)
	r.dataEqual(payer)
	r.op(txscript.OP_CHECKSIG)
	r.op(txscript.OP_ELSE)
	expireTime := r.sequence()
	r.op(txscript.OP_CHECKSEQUENCEVERIFY)
	r.op(txscript.OP_DROP)
	r.dataEqual(payer)
	r.op(txscript.OP_CHECKSIG)
	r.op(txscript.OP_ENDIF)
	r.op(txscript.OP_ENDIF)
	if err := r.finish(); err != nil {
		return nil, &InvalidScriptError{
			ScriptHex: scriptHex,
			Reason:    fmt.Sprintf("not a deposit script: %v", err),
		}
	}

	canonical, err := compileDeposit(payer, payee, spendHash, expireTime)
	if err != nil || !bytes.Equal(canonical, script) {
		return nil, &InvalidScriptError{
			ScriptHex: scriptHex,
			Reason:    "non-canonical deposit script encoding",
		}
	}

	return &DepositScript{
		PayerPubKey:     hex.EncodeToString(payer),
		PayeePubKey:     hex.EncodeToString(payee),
		SpendSecretHash: hex.EncodeToString(spendHash),
		ExpireTime:      expireTime,
	}, nil
}

// ParseCommitScript recovers the payment parameters from an untrusted
// script.  Only the canonical encoding produced by CompileCommitScript
// is accepted.
func ParseCommitScript(scriptHex string) (*CommitScript, error) {
	script, ops, err := tokenizeHex(scriptHex)
	if err != nil {
		return nil, &InvalidScriptError{ScriptHex: scriptHex, Reason: err.Error()}
	}

	r := opReader{ops: ops}
	r.op(txscript.OP_IF)
	delayTime := r.sequence()
	r.op(txscript.OP_CHECKSEQUENCEVERIFY)
	r.op(txscript.OP_DROP)
	r.op(txscript.OP_HASH160)
	spendHash := r.data(hash160Len)
	r.op(txscript.OP_EQUALVERIFY)
	payee := r.data(pubKeyLen)
	r.op(txscript.OP_CHECKSIG)
	r.op(txscript.OP_ELSE)
	r.op(txscript.OP_HASH160)
	revokeHash := r.data(hash160Len)
	r.op(txscript.OP_EQUALVERIFY)
	payer := r.data(pubKeyLen)
	r.op(txscript.OP_CHECKSIG)
	r.op(txscript.OP_ENDIF)
	if err := r.finish(); err != nil {
		return nil, &InvalidScriptError{
			ScriptHex: scriptHex,
			Reason:    fmt.Sprintf("not a commit script: %v", err),
		}
	}

	canonical, err := compileCommit(payer, payee, spendHash, revokeHash, delayTime)
	if err != nil || !bytes.Equal(canonical, script) {
		return nil, &InvalidScriptError{
			ScriptHex: scriptHex,
			Reason:    "non-canonical commit script encoding",
		}
	}

	return &CommitScript{
		PayerPubKey:      hex.EncodeToString(payer),
		PayeePubKey:      hex.EncodeToString(payee),
		SpendSecretHash:  hex.EncodeToString(spendHash),
		RevokeSecretHash: hex.EncodeToString(revokeHash),
		DelayTime:        delayTime,
	}, nil
}

// ValidateDepositScript checks that scriptHex is a well formed funding
// script.
func ValidateDepositScript(scriptHex string) error {
	_, err := ParseDepositScript(scriptHex)
	return err
}

// ValidateCommitScript checks that scriptHex is a well formed commit
// script.
func ValidateCommitScript(scriptHex string) error {
	_, err := ParseCommitScript(scriptHex)
	return err
}

func compileDeposit(payer, payee, spendHash []byte, expireTime uint32) ([]byte, error) {
	builder := txscript.NewScriptBuilder()

	// 1 for the cooperative 2-of-2 spend
	builder.AddOp(txscript.OP_IF)
	builder.AddOp(txscript.OP_2)
	builder.AddData(payer)
	builder.AddData(payee)
	builder.AddOp(txscript.OP_2)
	builder.AddOp(txscript.OP_CHECKMULTISIG)
	builder.AddOp(txscript.OP_ELSE)

	// 0 1 recovers change once the payee has shown the spend secret
	builder.AddOp(txscript.OP_IF)
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(spendHash)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddData(payer)
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)

	// 0 0 recovers the deposit after the channel expires
	builder.AddInt64(int64(expireTime))
	builder.AddOp(txscript.OP_CHECKSEQUENCEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddData(payer)
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ENDIF)

	builder.AddOp(txscript.OP_ENDIF)
	return builder.Script()
}

func compileCommit(payer, payee, spendHash, revokeHash []byte, delayTime uint32) ([]byte, error) {
	builder := txscript.NewScriptBuilder()

	// 1 pays out to the payee after the delay, keeping the payer from
	// double spending with an older commit
	builder.AddOp(txscript.OP_IF)
	builder.AddInt64(int64(delayTime))
	builder.AddOp(txscript.OP_CHECKSEQUENCEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(spendHash)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddData(payee)
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ELSE)

	// 0 lets the payer seize a revoked commit with the revoke secret
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(revokeHash)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddData(payer)
	builder.AddOp(txscript.OP_CHECKSIG)
	builder.AddOp(txscript.OP_ENDIF)
	return builder.Script()
}

func decodeField(fieldHex string, wantLen int, name string) ([]byte, error) {
	b, err := hex.DecodeString(fieldHex)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if len(b) != wantLen {
		return nil, fmt.Errorf("%s: got %d bytes, want %d", name, len(b), wantLen)
	}
	return b, nil
}

type scriptOp struct {
	code byte
	data []byte
}

func tokenizeHex(scriptHex string) ([]byte, []scriptOp, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, nil, err
	}
	var ops []scriptOp
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		ops = append(ops, scriptOp{code: tokenizer.Opcode(), data: tokenizer.Data()})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, nil, err
	}
	return script, ops, nil
}

// opReader walks a tokenized script against an expected shape.  Like
// txscript.ScriptBuilder it keeps the first error and turns every later
// call into a no-op, so template matches read straight down.
type opReader struct {
	ops []scriptOp
	pos int
	err error
}

func (r *opReader) op(code byte) {
	if r.err != nil {
		return
	}
	if r.pos >= len(r.ops) || r.ops[r.pos].code != code {
		r.err = fmt.Errorf("want opcode 0x%02x at index %d", code, r.pos)
		return
	}
	r.pos++
}

func (r *opReader) data(size int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos >= len(r.ops) || len(r.ops[r.pos].data) != size {
		r.err = fmt.Errorf("want %d byte push at index %d", size, r.pos)
		return nil
	}
	d := r.ops[r.pos].data
	r.pos++
	return d
}

func (r *opReader) dataEqual(want []byte) {
	d := r.data(len(want))
	if r.err == nil && !bytes.Equal(d, want) {
		r.err = fmt.Errorf("push at index %d does not repeat earlier value", r.pos-1)
	}
}

func (r *opReader) sequence() uint32 {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.ops) {
		r.err = fmt.Errorf("want sequence push at index %d", r.pos)
		return 0
	}
	n, ok := sequenceValue(r.ops[r.pos])
	if !ok {
		r.err = fmt.Errorf("bad sequence value at index %d", r.pos)
		return 0
	}
	r.pos++
	return n
}

func (r *opReader) finish() error {
	if r.err == nil && r.pos != len(r.ops) {
		r.err = fmt.Errorf("trailing opcodes after index %d", r.pos)
	}
	return r.err
}

// sequenceValue decodes a pushed relative timelock.  Accepts the small
// integer opcodes and little endian script numbers up to MaxSequence;
// non-minimal encodings survive here but die on the canonical re-encode.
func sequenceValue(op scriptOp) (uint32, bool) {
	if op.code == txscript.OP_0 {
		return 0, true
	}
	if op.code >= txscript.OP_1 && op.code <= txscript.OP_16 {
		return uint32(op.code-txscript.OP_1) + 1, true
	}
	if len(op.data) == 0 || len(op.data) > 3 {
		return 0, false
	}
	if op.data[len(op.data)-1]&0x80 != 0 {
		return 0, false // negative script number
	}
	var n uint32
	for i, b := range op.data {
		n |= uint32(b) << uint(8*i)
	}
	if n > MaxSequence {
		return 0, false
	}
	return n, true
}
