package micropay

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/F483/counterparty-lib/scripts"
)

const (
	payerPubHex   = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	payeePubHex   = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	otherPubHex   = "02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"
	spendHashHex  = "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"
	revokeHashHex = "1122334455667788990011223344556677889900"
	otherHashHex  = "aabbccddeeff00112233445566778899aabbccdd"
)

func TestCheckHex(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"00", true},
		{"deadbeef", true},
		// odd length, non hex and uppercase all fail
		{"0", false},
		{"f0f", false},
		{"zz", false},
		{"DEADBEEF", false},
		{"dead beef", false},
	}
	for i, test := range tests {
		err := CheckHex(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestCheckUnsigned(t *testing.T) {
	tests := []struct {
		value int64
		want  bool
	}{
		{0, true},
		{1, true},
		{1 << 40, true},
		{-1, false},
	}
	for i, test := range tests {
		err := CheckUnsigned(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestCheckSequence(t *testing.T) {
	tests := []struct {
		value int64
		want  bool
	}{
		{0, true},
		{1, true},
		{scripts.MaxSequence, true},
		{scripts.MaxSequence + 1, false},
		{-1, false},
	}
	for i, test := range tests {
		err := CheckSequence(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}

	// negative values fail the unsigned check, not the range check
	var unsignedErr *InvalidUnsignedError
	if !errors.As(CheckSequence(-1), &unsignedErr) {
		t.Fatalf("want InvalidUnsignedError for negative sequence")
	}
	var sequenceErr *InvalidSequenceError
	if !errors.As(CheckSequence(scripts.MaxSequence+1), &sequenceErr) {
		t.Fatalf("want InvalidSequenceError above the ceiling")
	}
}

func TestCheckQuantity(t *testing.T) {
	tests := []struct {
		value int64
		want  bool
	}{
		{1, true},
		{2100000000000000 - 1, true},
		{0, false},
		{2100000000000000, false},
		{-5, false},
	}
	for i, test := range tests {
		err := CheckQuantity(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestCheckPubKey(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{payerPubHex, true},
		{payeePubHex, true},
		// 65 byte uncompressed key
		{"04" + strings.Repeat("ab", 64), false},
		// 32 bytes, one short
		{payerPubHex[:64], false},
		{"", false},
		{"zz", false},
	}
	for i, test := range tests {
		err := CheckPubKey(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestCheckHash160(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{spendHashHex, true},
		{spendHashHex[:38], false},
		{spendHashHex + "00", false},
		{"", false},
		{"zz", false},
	}
	for i, test := range tests {
		err := CheckHash160(test.value)
		if (err == nil) != test.want {
			t.Fatalf("test failed at %d th test", i+1)
		}
	}
}

func TestValidateAsset(t *testing.T) {
	ledger := &fixtureLedger{
		assets: []AssetInfo{{AssetName: "XCP"}, {AssetName: "A95428956661682177"}},
	}
	if err := ValidateAsset(ledger, "XCP"); err != nil {
		t.Fatal(err)
	}
	if err := ValidateAsset(ledger, "A95428956661682177"); err != nil {
		t.Fatal(err)
	}

	var notFound *AssetNotFoundError
	if !errors.As(ValidateAsset(ledger, "NOPE"), &notFound) {
		t.Fatalf("want AssetNotFoundError")
	}
	if notFound.Asset != "NOPE" {
		t.Fatalf("wrong asset in error: %s", notFound.Asset)
	}

	ledger.assetsErr = fmt.Errorf("connection refused")
	var lookupErr *LookupError
	if !errors.As(ValidateAsset(ledger, "XCP"), &lookupErr) {
		t.Fatalf("want LookupError when the registry is unreachable")
	}
}

func TestValidateDeposit(t *testing.T) {
	depositHex, err := scripts.CompileDepositScript(
		payerPubHex, payeePubHex, spendHashHex, 1337)
	if err != nil {
		t.Fatal(err)
	}

	if err := ValidateDeposit(depositHex, payeePubHex, spendHashHex); err != nil {
		t.Fatal(err)
	}

	// wrong spend secret hash
	var hashErr *SpendSecretHashMismatchError
	err = ValidateDeposit(depositHex, payeePubHex, otherHashHex)
	if !errors.As(err, &hashErr) {
		t.Fatalf("want SpendSecretHashMismatchError, got %v", err)
	}
	if hashErr.Found != spendHashHex || hashErr.Expected != otherHashHex {
		t.Fatalf("wrong found/expected in %v", hashErr)
	}

	// wrong payee pubkey
	var keyErr *PubKeyMismatchError
	err = ValidateDeposit(depositHex, otherPubHex, spendHashHex)
	if !errors.As(err, &keyErr) {
		t.Fatalf("want PubKeyMismatchError, got %v", err)
	}
	if keyErr.Role != "payee" {
		t.Fatalf("wrong role %s", keyErr.Role)
	}

	// not hex at all
	var hexErr *InvalidHexError
	if !errors.As(ValidateDeposit("zz", payeePubHex, spendHashHex), &hexErr) {
		t.Fatalf("want InvalidHexError")
	}

	// valid hex but not a deposit script
	var scriptErr *scripts.InvalidScriptError
	if !errors.As(ValidateDeposit("51", payeePubHex, spendHashHex), &scriptErr) {
		t.Fatalf("want InvalidScriptError")
	}
}

func TestValidateCommit(t *testing.T) {
	depositHex, err := scripts.CompileDepositScript(
		payerPubHex, payeePubHex, spendHashHex, 1337)
	if err != nil {
		t.Fatal(err)
	}
	commitHex, err := scripts.CompileCommitScript(
		payerPubHex, payeePubHex, spendHashHex, revokeHashHex, 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateCommit(commitHex, depositHex); err != nil {
		t.Fatal(err)
	}

	// commit scripts may differ from the deposit only in the revoke
	// hash and the delay
	tests := []struct {
		payer, payee, spendHash string
		role                    string
	}{
		{payerPubHex, otherPubHex, spendHashHex, "payee"},
		{otherPubHex, payeePubHex, spendHashHex, "payer"},
		{payerPubHex, payeePubHex, otherHashHex, ""},
	}
	for i, test := range tests {
		foreignHex, err := scripts.CompileCommitScript(
			test.payer, test.payee, test.spendHash, revokeHashHex, 5)
		if err != nil {
			t.Fatal(err)
		}
		err = ValidateCommit(foreignHex, depositHex)
		if test.role != "" {
			var keyErr *PubKeyMismatchError
			if !errors.As(err, &keyErr) || keyErr.Role != test.role {
				t.Fatalf("test failed at %d th test: %v", i+1, err)
			}
		} else {
			var hashErr *SpendSecretHashMismatchError
			if !errors.As(err, &hashErr) {
				t.Fatalf("test failed at %d th test: %v", i+1, err)
			}
		}
	}

	// swapped arguments must fail structurally
	var scriptErr *scripts.InvalidScriptError
	if !errors.As(ValidateCommit(depositHex, commitHex), &scriptErr) {
		t.Fatalf("want InvalidScriptError for swapped scripts")
	}
}

func TestValidateSendTx(t *testing.T) {
	ledger := &fixtureLedger{
		txInfo: map[string]*TxInfo{
			"aa01": {
				Source:      "mtQVdnwkbqssZaakyqFr2aVBMQjPaSpK2V",
				Destination: "2MswgXDAkYTQJgf9prSa3aBojrGWBQVT8mo",
				BtcAmount:   5430,
				Fee:         10000,
				Data:        "434e545250525459beef",
			},
			"bb02": {
				Source:      "mtQVdnwkbqssZaakyqFr2aVBMQjPaSpK2V",
				Destination: "2MswgXDAkYTQJgf9prSa3aBojrGWBQVT8mo",
				BtcAmount:   5430,
				Fee:         10000,
				Data:        "",
			},
			"cc03": {
				Source:      "mtQVdnwkbqssZaakyqFr2aVBMQjPaSpK2V",
				Destination: "2MswgXDAkYTQJgf9prSa3aBojrGWBQVT8mo",
				BtcAmount:   5430,
				Fee:         10000,
				Data:        "434e545250525459dead",
			},
		},
		unpacked: map[string]*UnpackedTx{
			"434e545250525459beef": {TypeID: 0, Asset: "XCP", Quantity: 31337},
			"434e545250525459dead": {TypeID: 30, Asset: "", Quantity: 0},
		},
	}

	// all expectations supplied and met
	sendTx, err := ValidateSendTx(ledger, "aa01",
		"XCP", "mtQVdnwkbqssZaakyqFr2aVBMQjPaSpK2V",
		"2MswgXDAkYTQJgf9prSa3aBojrGWBQVT8mo", false)
	if err != nil {
		t.Fatal(err)
	}
	if sendTx.Asset != "XCP" || sendTx.Quantity != 31337 ||
		sendTx.BtcAmount != 5430 || sendTx.Fee != 10000 ||
		sendTx.TypeID != MessageTypeSend ||
		sendTx.Data != "434e545250525459beef" {
		t.Fatalf("wrong send record %+v", sendTx)
	}

	// empty expectations are skipped
	if _, err := ValidateSendTx(ledger, "aa01", "", "", "", false); err != nil {
		t.Fatal(err)
	}

	// each expectation fails with its own kind
	var srcErr *SourceMismatchError
	_, err = ValidateSendTx(ledger, "aa01", "", "mwrong", "", false)
	if !errors.As(err, &srcErr) {
		t.Fatalf("want SourceMismatchError, got %v", err)
	}
	var destErr *DestinationMismatchError
	_, err = ValidateSendTx(ledger, "aa01", "", "", "2Mwrong", false)
	if !errors.As(err, &destErr) {
		t.Fatalf("want DestinationMismatchError, got %v", err)
	}
	var assetErr *AssetMismatchError
	_, err = ValidateSendTx(ledger, "aa01", "BTC", "", "", false)
	if !errors.As(err, &assetErr) {
		t.Fatalf("want AssetMismatchError, got %v", err)
	}

	// transaction without protocol data
	var payloadErr *MissingPayloadError
	_, err = ValidateSendTx(ledger, "bb02", "", "", "", false)
	if !errors.As(err, &payloadErr) {
		t.Fatalf("want MissingPayloadError, got %v", err)
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Fatalf("unhelpful payload error text: %v", err)
	}

	// payload decodes to something other than a send
	var sendErr *NotSendError
	_, err = ValidateSendTx(ledger, "cc03", "", "", "", false)
	if !errors.As(err, &sendErr) {
		t.Fatalf("want NotSendError, got %v", err)
	}
	if sendErr.TypeID != 30 {
		t.Fatalf("wrong message type %d", sendErr.TypeID)
	}

	// unknown transaction surfaces as a lookup failure
	var lookupErr *LookupError
	_, err = ValidateSendTx(ledger, "ff99", "", "", "", false)
	if !errors.As(err, &lookupErr) {
		t.Fatalf("want LookupError, got %v", err)
	}
	if lookupErr.Op != "get_tx_info" {
		t.Fatalf("wrong op %s", lookupErr.Op)
	}
}
