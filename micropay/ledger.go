package micropay

// MessageTypeSend identifies a send message in unpacked transaction data.
const MessageTypeSend = 0

// AssetInfo is one row of the ledger's asset registry.
type AssetInfo struct {
	AssetName string `json:"asset_name"`
}

// TxInfo is the ledger's reading of a raw transaction.  Data is empty
// when the transaction carries no protocol payload.
type TxInfo struct {
	Source      string
	Destination string
	BtcAmount   int64
	Fee         int64
	Data        string
}

// UnpackedTx is a decoded protocol payload.  Asset and Quantity are set
// for send messages.
type UnpackedTx struct {
	TypeID   int64
	Asset    string
	Quantity int64
}

// Ledger is the read only node access the validators consume.  Every
// call may block on the network and may fail; the validators wrap any
// failure in a LookupError and never retry or cache.  Implementations
// must be safe for concurrent use.
type Ledger interface {
	GetAssets() ([]AssetInfo, error)
	GetTxInfo(rawtxHex string) (*TxInfo, error)
	Unpack(dataHex string) (*UnpackedTx, error)
	GetRawTransaction(txidHex string) (string, error)
}
