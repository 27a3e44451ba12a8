package scripts

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
)

// generator point and 2G, handy known-good compressed pubkeys
const (
	testPayerPub   = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	testPayeePub   = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	testSpendHash  = "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"
	testRevokeHash = "1122334455667788990011223344556677889900"
)

// DepositScript / CommitScript round trip
// compile with every interesting sequence encoding, parse back, compare
func TestScriptRoundTrip(t *testing.T) {
	sequences := []uint32{0, 1, 2, 15, 16, 17, 127, 128, 255, 256, 512, MaxSequence}

	for i, seq := range sequences {
		depositHex, err := CompileDepositScript(
			testPayerPub, testPayeePub, testSpendHash, seq)
		if err != nil {
			t.Fatalf("compile failed at %d th sequence: %v", i+1, err)
		}
		deposit, err := ParseDepositScript(depositHex)
		if err != nil {
			t.Fatalf("parse failed at %d th sequence: %v", i+1, err)
		}
		if deposit.PayerPubKey != testPayerPub ||
			deposit.PayeePubKey != testPayeePub ||
			deposit.SpendSecretHash != testSpendHash ||
			deposit.ExpireTime != seq {
			t.Fatalf("deposit round trip failed at %d th sequence", i+1)
		}
		if err := ValidateDepositScript(depositHex); err != nil {
			t.Fatalf("validate failed at %d th sequence: %v", i+1, err)
		}

		commitHex, err := CompileCommitScript(
			testPayerPub, testPayeePub, testSpendHash, testRevokeHash, seq)
		if err != nil {
			t.Fatalf("compile failed at %d th sequence: %v", i+1, err)
		}
		commit, err := ParseCommitScript(commitHex)
		if err != nil {
			t.Fatalf("parse failed at %d th sequence: %v", i+1, err)
		}
		if commit.PayerPubKey != testPayerPub ||
			commit.PayeePubKey != testPayeePub ||
			commit.SpendSecretHash != testSpendHash ||
			commit.RevokeSecretHash != testRevokeHash ||
			commit.DelayTime != seq {
			t.Fatalf("commit round trip failed at %d th sequence", i+1)
		}
		if err := ValidateCommitScript(commitHex); err != nil {
			t.Fatalf("validate failed at %d th sequence: %v", i+1, err)
		}
	}
}

func TestCompileRejectsBadFields(t *testing.T) {
	tests := []struct {
		payer, payee, spendHash string
		expire                  uint32
	}{
		// truncated payer pubkey
		{testPayerPub[:64], testPayeePub, testSpendHash, 1},
		// non-hex payee pubkey
		{testPayerPub, "zz" + testPayeePub[2:], testSpendHash, 1},
		// 19 byte spend secret hash
		{testPayerPub, testPayeePub, testSpendHash[:38], 1},
		// sequence above 16 bits
		{testPayerPub, testPayeePub, testSpendHash, MaxSequence + 1},
	}
	for i, test := range tests {
		_, err := CompileDepositScript(
			test.payer, test.payee, test.spendHash, test.expire)
		if err == nil {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestParseDepositScriptRejects(t *testing.T) {
	goodHex, err := CompileDepositScript(testPayerPub, testPayeePub, testSpendHash, 1)
	if err != nil {
		t.Fatal(err)
	}
	commitHex, err := CompileCommitScript(
		testPayerPub, testPayeePub, testSpendHash, testRevokeHash, 1)
	if err != nil {
		t.Fatal(err)
	}

	// the raw compilers take any byte slices, so they can produce the
	// near-miss scripts the exported API refuses to build
	payer65 := bytes.Repeat([]byte{0x04}, 65)
	payee65 := bytes.Repeat([]byte{0x05}, 65)
	spendHash, _ := hex.DecodeString(testSpendHash)
	uncompressed, err := compileDeposit(payer65, payee65, spendHash, 1)
	if err != nil {
		t.Fatal(err)
	}
	payer, _ := hex.DecodeString(testPayerPub)
	payee, _ := hex.DecodeString(testPayeePub)
	shortHash, err := compileDeposit(payer, payee, spendHash[:19], 1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		scriptHex string
	}{
		{"empty", ""},
		{"odd length hex", goodHex[:len(goodHex)-1]},
		{"truncated", goodHex[:len(goodHex)-4]},
		{"trailing opcode", goodHex + "51"},
		{"commit script", commitHex},
		{"uncompressed pubkeys", uncompressed},
		{"short hash", shortHash},
		// OP_1 expire time re-encoded as a two byte push
		{"non-minimal sequence", strings.Replace(goodHex, "6751b275", "67020100b275", 1)},
	}
	for i, test := range tests {
		if _, err := ParseDepositScript(test.scriptHex); err == nil {
			t.Fatalf("test failed at %d th test: %s", i+1, test.name)
		}
	}
}

func TestParseCommitScriptRejects(t *testing.T) {
	goodHex, err := CompileCommitScript(
		testPayerPub, testPayeePub, testSpendHash, testRevokeHash, 3)
	if err != nil {
		t.Fatal(err)
	}
	depositHex, err := CompileDepositScript(testPayerPub, testPayeePub, testSpendHash, 3)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		scriptHex string
	}{
		{"empty", ""},
		{"truncated", goodHex[:len(goodHex)-4]},
		{"trailing opcode", goodHex + "51"},
		{"deposit script", depositHex},
		// OP_3 delay re-encoded as a two byte push
		{"non-minimal sequence", strings.Replace(goodHex, "6353b275", "63020300b275", 1)},
	}
	for i, test := range tests {
		if _, err := ParseCommitScript(test.scriptHex); err == nil {
			t.Fatalf("test failed at %d th test: %s", i+1, test.name)
		}
	}
}

func TestHash160Hex(t *testing.T) {
	// hash160 of no data
	digest, err := Hash160Hex("")
	if err != nil {
		t.Fatal(err)
	}
	if digest != "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb" {
		t.Fatalf("wrong digest %s", digest)
	}
	if _, err := Hash160Hex("not hex"); err == nil {
		t.Fatalf("bad hex needs to fail")
	}
}

func TestScriptAddress(t *testing.T) {
	scriptHex, err := CompileDepositScript(testPayerPub, testPayeePub, testSpendHash, 1)
	if err != nil {
		t.Fatal(err)
	}
	addrStr, err := ScriptAddress(scriptHex, &chaincfg.RegressionNetParams)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := btcutil.DecodeAddress(addrStr, &chaincfg.RegressionNetParams)
	if err != nil {
		t.Fatal(err)
	}
	if !addr.IsForNet(&chaincfg.RegressionNetParams) {
		t.Fatalf("address %s on wrong network", addrStr)
	}
	script, _ := hex.DecodeString(scriptHex)
	if !bytes.Equal(addr.ScriptAddress(), btcutil.Hash160(script)) {
		t.Fatalf("address %s does not commit to the script", addrStr)
	}

	if _, err := ScriptAddress("zz", &chaincfg.RegressionNetParams); err == nil {
		t.Fatalf("bad hex needs to fail")
	}
}

// channelFixture wires up keys, secrets and both channel scripts for the
// script engine tests below.
type channelFixture struct {
	payerPriv, payeePriv  *btcec.PrivateKey
	depositHex, commitHex string
	deposit, commit       []byte
	spendSecret           string
	revokeSecret          string
}

func newChannelFixture(t *testing.T) *channelFixture {
	payerPriv, payerPub := btcec.PrivKeyFromBytes(
		btcec.S256(), bytes.Repeat([]byte{0x11}, 32))
	payeePriv, payeePub := btcec.PrivKeyFromBytes(
		btcec.S256(), bytes.Repeat([]byte{0x22}, 32))

	spendSecret := bytes.Repeat([]byte{0xaa}, 32)
	revokeSecret := bytes.Repeat([]byte{0xbb}, 32)
	spendHash := hex.EncodeToString(btcutil.Hash160(spendSecret))
	revokeHash := hex.EncodeToString(btcutil.Hash160(revokeSecret))

	payerHex := hex.EncodeToString(payerPub.SerializeCompressed())
	payeeHex := hex.EncodeToString(payeePub.SerializeCompressed())

	depositHex, err := CompileDepositScript(payerHex, payeeHex, spendHash, 5)
	if err != nil {
		t.Fatal(err)
	}
	commitHex, err := CompileCommitScript(payerHex, payeeHex, spendHash, revokeHash, 5)
	if err != nil {
		t.Fatal(err)
	}
	deposit, _ := hex.DecodeString(depositHex)
	commit, _ := hex.DecodeString(commitHex)

	return &channelFixture{
		payerPriv:    payerPriv,
		payeePriv:    payeePriv,
		depositHex:   depositHex,
		commitHex:    commitHex,
		deposit:      deposit,
		commit:       commit,
		spendSecret:  hex.EncodeToString(spendSecret),
		revokeSecret: hex.EncodeToString(revokeSecret),
	}
}

// fundAndSpend builds a tx paying to the redeem script's P2SH address and
// a second tx spending that output with the given input sequence.
func fundAndSpend(t *testing.T, redeem []byte, seq uint32) (*wire.MsgTx, []byte) {
	addr, err := btcutil.NewAddressScriptHash(redeem, &chaincfg.RegressionNetParams)
	if err != nil {
		t.Fatal(err)
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatal(err)
	}

	fundTx := wire.NewMsgTx(2)
	fundTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil, nil))
	fundTx.AddTxOut(wire.NewTxOut(100000, pkScript))

	fundHash := fundTx.TxHash()
	spendTx := wire.NewMsgTx(2)
	spendTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&fundHash, 0), nil, nil))
	spendTx.TxIn[0].Sequence = seq
	spendTx.AddTxOut(wire.NewTxOut(95000, pkScript))
	return spendTx, pkScript
}

func runSpend(spendTx *wire.MsgTx, pkScript []byte, scriptSigHex string) error {
	scriptSig, err := hex.DecodeString(scriptSigHex)
	if err != nil {
		return err
	}
	spendTx.TxIn[0].SignatureScript = scriptSig
	vm, err := txscript.NewEngine(
		pkScript, spendTx, 0, txscript.StandardVerifyFlags, nil, nil, 100000)
	if err != nil {
		return err
	}
	return vm.Execute()
}

// every spend path of both scripts has to clear a real script engine
func TestScriptSigSpendPaths(t *testing.T) {
	fix := newChannelFixture(t)

	// deposit 2-of-2 branch
	spendTx, pkScript := fundAndSpend(t, fix.deposit, 5)
	payerSig, err := txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	payeeSig, err := txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payeePriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err := CommitScriptSig(
		hex.EncodeToString(payerSig), hex.EncodeToString(payeeSig), fix.depositHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err != nil {
		t.Fatalf("commit spend failed: %v", err)
	}

	// deposit change branch, payer plus leaked spend secret
	spendTx, pkScript = fundAndSpend(t, fix.deposit, 5)
	payerSig, err = txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = ChangeScriptSig(
		hex.EncodeToString(payerSig), fix.spendSecret, fix.depositHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err != nil {
		t.Fatalf("change spend failed: %v", err)
	}

	// deposit expire branch, sequence satisfies the CSV
	spendTx, pkScript = fundAndSpend(t, fix.deposit, 5)
	payerSig, err = txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = ExpireScriptSig(hex.EncodeToString(payerSig), fix.depositHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err != nil {
		t.Fatalf("expire spend failed: %v", err)
	}

	// commit payout branch, payee plus spend secret after the delay
	spendTx, pkScript = fundAndSpend(t, fix.commit, 5)
	payeeSig, err = txscript.RawTxInSignature(
		spendTx, 0, fix.commit, txscript.SigHashAll, fix.payeePriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = PayoutScriptSig(
		hex.EncodeToString(payeeSig), fix.spendSecret, fix.commitHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err != nil {
		t.Fatalf("payout spend failed: %v", err)
	}

	// commit revoke branch, payer plus revoke secret, no delay needed
	spendTx, pkScript = fundAndSpend(t, fix.commit, 0)
	payerSig, err = txscript.RawTxInSignature(
		spendTx, 0, fix.commit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = RevokeScriptSig(
		hex.EncodeToString(payerSig), fix.revokeSecret, fix.commitHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err != nil {
		t.Fatalf("revoke spend failed: %v", err)
	}
}

func TestScriptSigSpendPathsReject(t *testing.T) {
	fix := newChannelFixture(t)

	// expire branch too early, input sequence below the CSV value
	spendTx, pkScript := fundAndSpend(t, fix.deposit, 4)
	payerSig, err := txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err := ExpireScriptSig(hex.EncodeToString(payerSig), fix.depositHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err == nil {
		t.Fatalf("early expire spend needs to fail")
	}

	// 2-of-2 branch with the payer signature in both slots
	spendTx, pkScript = fundAndSpend(t, fix.deposit, 5)
	payerSig, err = txscript.RawTxInSignature(
		spendTx, 0, fix.deposit, txscript.SigHashAll, fix.payerPriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = CommitScriptSig(
		hex.EncodeToString(payerSig), hex.EncodeToString(payerSig), fix.depositHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err == nil {
		t.Fatalf("commit spend with one signer needs to fail")
	}

	// payout branch with the wrong secret
	spendTx, pkScript = fundAndSpend(t, fix.commit, 5)
	payeeSig, err := txscript.RawTxInSignature(
		spendTx, 0, fix.commit, txscript.SigHashAll, fix.payeePriv)
	if err != nil {
		t.Fatal(err)
	}
	scriptSig, err = PayoutScriptSig(
		hex.EncodeToString(payeeSig), fix.revokeSecret, fix.commitHex)
	if err != nil {
		t.Fatal(err)
	}
	if err := runSpend(spendTx, pkScript, scriptSig); err == nil {
		t.Fatalf("payout spend with wrong secret needs to fail")
	}
}
