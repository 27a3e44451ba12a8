package micropay

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// verifyTxSignatures runs every input of rawtx through the script
// engine against the output it spends.  The funding transactions come
// from the ledger, one fetch per input.
func verifyTxSignatures(ledger Ledger, rawtxHex string) error {
	tx, err := decodeTx(rawtxHex)
	if err != nil {
		return &InvalidRawTxError{Value: rawtxHex}
	}
	txid := tx.TxHash().String()
	hashCache := txscript.NewTxSigHashes(tx)

	for i, txin := range tx.TxIn {
		prevHex, err := ledger.GetRawTransaction(
			txin.PreviousOutPoint.Hash.String())
		if err != nil {
			return &LookupError{Op: "getrawtransaction", Err: err}
		}
		prevTx, err := decodeTx(prevHex)
		if err != nil {
			return &LookupError{Op: "getrawtransaction", Err: err}
		}
		idx := txin.PreviousOutPoint.Index
		if idx >= uint32(len(prevTx.TxOut)) {
			return &LookupError{
				Op: "getrawtransaction",
				Err: fmt.Errorf("transaction %s has no output %d",
					txin.PreviousOutPoint.Hash, idx),
			}
		}
		prevOut := prevTx.TxOut[idx]
		vm, err := txscript.NewEngine(prevOut.PkScript, tx, i,
			txscript.StandardVerifyFlags, nil, hashCache, prevOut.Value)
		if err != nil {
			return &InvalidSignatureError{TxID: txid}
		}
		if err := vm.Execute(); err != nil {
			return &InvalidSignatureError{TxID: txid}
		}
	}
	return nil
}

func decodeTx(rawtxHex string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(rawtxHex)
	if err != nil {
		return nil, err
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return tx, nil
}
