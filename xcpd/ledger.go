package xcpd

import (
	"encoding/json"
	"fmt"

	"github.com/F483/counterparty-lib/micropay"
)

// A compile-time assertion that the client serves as a channel ledger.
var _ micropay.Ledger = (*Client)(nil)

// GetAssets lists every asset known to the ledger.
func (c *Client) GetAssets() ([]micropay.AssetInfo, error) {
	var assets []micropay.AssetInfo
	err := c.call("get_assets", struct{}{}, &assets)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// GetTxInfo has the server parse a raw transaction into its send tuple:
// source, destination, btc amount, fee and the embedded protocol data.
func (c *Client) GetTxInfo(rawtxHex string) (*micropay.TxInfo, error) {
	params := struct {
		TxHex string `json:"tx_hex"`
	}{TxHex: rawtxHex}

	var tuple []json.RawMessage
	if err := c.call("get_tx_info", params, &tuple); err != nil {
		return nil, err
	}
	if len(tuple) != 5 {
		return nil, fmt.Errorf(
			"get_tx_info returned %d fields, want 5", len(tuple))
	}

	var info micropay.TxInfo
	fields := []interface{}{
		&info.Source, &info.Destination, &info.BtcAmount, &info.Fee, &info.Data,
	}
	for i, field := range fields {
		if err := json.Unmarshal(tuple[i], field); err != nil {
			return nil, fmt.Errorf(
				"bad get_tx_info field %d: %s", i, err.Error())
		}
	}
	return &info, nil
}

// Unpack decodes an embedded protocol payload into its message type id
// and the type specific contents.
func (c *Client) Unpack(dataHex string) (*micropay.UnpackedTx, error) {
	params := struct {
		DataHex string `json:"data_hex"`
	}{DataHex: dataHex}

	var tuple []json.RawMessage
	if err := c.call("unpack", params, &tuple); err != nil {
		return nil, err
	}
	if len(tuple) != 2 {
		return nil, fmt.Errorf("unpack returned %d fields, want 2", len(tuple))
	}

	var unpacked micropay.UnpackedTx
	if err := json.Unmarshal(tuple[0], &unpacked.TypeID); err != nil {
		return nil, fmt.Errorf("bad unpack type id: %s", err.Error())
	}
	contents := struct {
		Asset    string `json:"asset"`
		Quantity int64  `json:"quantity"`
	}{}
	if err := json.Unmarshal(tuple[1], &contents); err != nil {
		return nil, fmt.Errorf("bad unpack contents: %s", err.Error())
	}
	unpacked.Asset = contents.Asset
	unpacked.Quantity = contents.Quantity
	return &unpacked, nil
}

// GetRawTransaction fetches a raw transaction by txid through the
// server's bitcoind passthrough.
func (c *Client) GetRawTransaction(txidHex string) (string, error) {
	params := struct {
		TxHash string `json:"tx_hash"`
	}{TxHash: txidHex}

	var rawtx string
	if err := c.call("getrawtransaction", params, &rawtx); err != nil {
		return "", err
	}
	return rawtx, nil
}
