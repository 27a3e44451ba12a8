package scripts

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// The scriptSig builders below assemble the P2SH spends for each branch
// of the channel scripts.  Signatures are DER encoded with the hash type
// byte appended, exactly as they come out of txscript.RawTxInSignature.

// CommitScriptSig spends the 2-of-2 branch of a deposit output.  The
// leading OP_0 soaks up the CHECKMULTISIG extra pop.
func CommitScriptSig(payerSig, payeeSig, depositScript string) (string, error) {
	payer, err := decodeHexArg(payerSig, "payer signature")
	if err != nil {
		return "", err
	}
	payee, err := decodeHexArg(payeeSig, "payee signature")
	if err != nil {
		return "", err
	}
	redeem, err := decodeHexArg(depositScript, "deposit script")
	if err != nil {
		return "", err
	}
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_0)
	builder.AddData(payer)
	builder.AddData(payee)
	builder.AddOp(txscript.OP_1)
	builder.AddData(redeem)
	return scriptSigHex(builder)
}

// PayoutScriptSig spends the delayed branch of a commit output to the
// payee, publishing the spend secret.
func PayoutScriptSig(payeeSig, spendSecret, commitScript string) (string, error) {
	sig, err := decodeHexArg(payeeSig, "payee signature")
	if err != nil {
		return "", err
	}
	secret, err := decodeHexArg(spendSecret, "spend secret")
	if err != nil {
		return "", err
	}
	redeem, err := decodeHexArg(commitScript, "commit script")
	if err != nil {
		return "", err
	}
	builder := txscript.NewScriptBuilder()
	builder.AddData(sig)
	builder.AddData(secret)
	builder.AddOp(txscript.OP_1)
	builder.AddData(redeem)
	return scriptSigHex(builder)
}

// RevokeScriptSig seizes a revoked commit output for the payer using the
// revoke secret the payee handed over.
func RevokeScriptSig(payerSig, revokeSecret, commitScript string) (string, error) {
	sig, err := decodeHexArg(payerSig, "payer signature")
	if err != nil {
		return "", err
	}
	secret, err := decodeHexArg(revokeSecret, "revoke secret")
	if err != nil {
		return "", err
	}
	redeem, err := decodeHexArg(commitScript, "commit script")
	if err != nil {
		return "", err
	}
	builder := txscript.NewScriptBuilder()
	builder.AddData(sig)
	builder.AddData(secret)
	builder.AddOp(txscript.OP_0)
	builder.AddData(redeem)
	return scriptSigHex(builder)
}

// ChangeScriptSig recovers deposit change for the payer once the payee
// has revealed the spend secret on chain.
func ChangeScriptSig(payerSig, spendSecret, depositScript string) (string, error) {
	sig, err := decodeHexArg(payerSig, "payer signature")
	if err != nil {
		return "", err
	}
	secret, err := decodeHexArg(spendSecret, "spend secret")
	if err != nil {
		return "", err
	}
	redeem, err := decodeHexArg(depositScript, "deposit script")
	if err != nil {
		return "", err
	}
	builder := txscript.NewScriptBuilder()
	builder.AddData(sig)
	builder.AddData(secret)
	builder.AddOp(txscript.OP_1)
	builder.AddOp(txscript.OP_0)
	builder.AddData(redeem)
	return scriptSigHex(builder)
}

// ExpireScriptSig recovers an expired deposit output for the payer after
// the relative timelock has passed.
func ExpireScriptSig(payerSig, depositScript string) (string, error) {
	sig, err := decodeHexArg(payerSig, "payer signature")
	if err != nil {
		return "", err
	}
	redeem, err := decodeHexArg(depositScript, "deposit script")
	if err != nil {
		return "", err
	}
	builder := txscript.NewScriptBuilder()
	builder.AddData(sig)
	builder.AddOp(txscript.OP_0)
	builder.AddOp(txscript.OP_0)
	builder.AddData(redeem)
	return scriptSigHex(builder)
}

func scriptSigHex(builder *txscript.ScriptBuilder) (string, error) {
	script, err := builder.Script()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

func decodeHexArg(argHex, name string) ([]byte, error) {
	b, err := hex.DecodeString(argHex)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%s: empty", name)
	}
	return b, nil
}
