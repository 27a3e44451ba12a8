package mpcrpc

import (
	"fmt"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"

	"golang.org/x/net/websocket"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/F483/counterparty-lib/db/chanbolt"
	"github.com/F483/counterparty-lib/logging"
	"github.com/F483/counterparty-lib/micropay"
)

/*
Remote Procedure Calls
RPCs are how people tell the mpc daemon what to do.  Everything the
daemon can do -- validate channel states, store them, query the ledger
-- goes through here.
*/

// A MpcRPC is the user I/O interface; it owns the ledger connection and
// the channel database and listens and responds on RPC.
type MpcRPC struct {
	Ledger    micropay.Ledger
	CDB       *chanbolt.ChanDB
	Params    *chaincfg.Params
	OffButton chan bool
}

func serveWS(ws *websocket.Conn) {
	jsonrpc.ServeConn(ws)
}

func RPCListen(rpcl *MpcRPC, host string, port uint16) {

	rpc.Register(rpcl)

	listenString := fmt.Sprintf("%s:%d", host, port)

	http.Handle("/ws", websocket.Handler(serveWS))

	logging.Fatal(http.ListenAndServe(listenString, nil))
}
