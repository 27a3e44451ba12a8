package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/F483/counterparty-lib/config"
	"github.com/F483/counterparty-lib/db/chanbolt"
	"github.com/F483/counterparty-lib/logging"
	"github.com/F483/counterparty-lib/mpcrpc"
	"github.com/F483/counterparty-lib/nat"
	"github.com/F483/counterparty-lib/xcpd"
)

/*
mpcd is the micropayment channel daemon.  It connects to a counterparty
server for ledger data, validates channel states people hand it over
RPC, and keeps the states it was asked to keep in a bolt db.
*/

func main() {
	fmt.Printf("mpcd v0.1\n")
	fmt.Printf("-h for list of options.\n")

	conf := config.Config{
		MpcHomeDir: config.DefaultMpcHomeDirName,
		Xcphost:    config.DefaultXcphost,
		Xcpuser:    config.DefaultXcpuser,
		Rpcport:    config.DefaultRpcport,
		Rpchost:    config.DefaultRpchost,
	}
	xcppass := config.MpcSetup(&conf)

	ledger, err := xcpd.New(conf.Xcphost, conf.Xcpuser, xcppass, conf.ProxyURL)
	if err != nil {
		logging.Fatal(err)
	}

	dbPath := filepath.Join(conf.MpcHomeDir, config.DefaultChanDBFilename)
	cdb, err := chanbolt.Open(dbPath)
	if err != nil {
		logging.Fatal(err)
	}
	defer cdb.Close()

	if conf.Nat != "" {
		if conf.Nat == "upnp" {
			logging.Infof("Attempting port forwarding via UPnP for port %d...",
				conf.Rpcport)
			err = nat.SetupUpnp(conf.Rpcport)
			if err != nil {
				logging.Fatal(err)
			}
		} else if conf.Nat == "pmp" {
			timeout := time.Duration(10 * time.Second)
			logging.Infof("Attempting port forwarding via PMP for port %d...",
				conf.Rpcport)
			_, err = nat.SetupPmp(timeout, conf.Rpcport)
			if err != nil {
				logging.Fatal(err)
			}
		} else {
			logging.Fatalf("invalid NAT type: %s", conf.Nat)
		}
	}

	rpcl := &mpcrpc.MpcRPC{
		Ledger:    ledger,
		CDB:       cdb,
		Params:    conf.Params,
		OffButton: make(chan bool, 1),
	}

	logging.Infof("Listening on %s:%d", conf.Rpchost, conf.Rpcport)
	go mpcrpc.RPCListen(rpcl, conf.Rpchost, conf.Rpcport)

	<-rpcl.OffButton
	logging.Infof("Got stop request")
	time.Sleep(time.Second)
}
