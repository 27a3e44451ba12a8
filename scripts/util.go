package scripts

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"
)

// Hash160Hex returns the RIPEMD160(SHA256(data)) digest of hex encoded
// data, itself hex encoded.  Channel secrets commit to their hashes
// through this.
func Hash160Hex(dataHex string) (string, error) {
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(btcutil.Hash160(data)), nil
}

// ScriptAddress returns the P2SH address paying to the given script on
// the given network.
func ScriptAddress(scriptHex string, params *chaincfg.Params) (string, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressScriptHash(script, params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
