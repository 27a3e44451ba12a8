package main

import (
	"flag"
	"fmt"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"golang.org/x/net/websocket"

	"github.com/F483/counterparty-lib/logging"
)

/*
mpc-af

The mpc advanced functionality interface.
This is a text mode interface to mpcd.  It connects over jsonrpc to the
mpcd node and tells that node what to do.  The node responds so that
mpc-af can tell what's going on.
*/

const (
	mpcHomeDirName  = ".mpcd"
	historyFilename = "mpc-af.history"
)

type mpcAfClient struct {
	remote     string
	port       uint16
	verbosity  int
	mpcHomeDir string
	oneshot    string
	rpccon     *rpc.Client
}

type Command struct {
	Format           string
	Description      string
	ShortDescription string
}

func setConfig(lc *mpcAfClient) {
	hostptr := flag.String("node", "127.0.0.1", "host to connect to")
	portptr := flag.Int("p", 8001, "port to connect to")
	vptr := flag.Int("v", 2, "verbosity level")
	dirptr := flag.String("dir",
		filepath.Join(os.Getenv("HOME"), mpcHomeDirName),
		"directory to save settings")
	cmdptr := flag.String("c", "", "run a single command and exit")

	flag.Parse()
	lc.remote = *hostptr
	lc.port = uint16(*portptr)
	lc.verbosity = *vptr
	lc.mpcHomeDir = *dirptr
	lc.oneshot = *cmdptr
}

func main() {
	lc := new(mpcAfClient)
	setConfig(lc)

	logging.SetLogLevel(lc.verbosity)

	// create home directory if it does not exist
	_, err := os.Stat(lc.mpcHomeDir)
	if os.IsNotExist(err) {
		os.Mkdir(lc.mpcHomeDir, 0700)
	}

	origin := "http://127.0.0.1/"
	urlString := fmt.Sprintf("ws://%s:%d/ws", lc.remote, lc.port)
	wsConn, err := websocket.Dial(urlString, "", origin)
	if err != nil {
		logging.Fatal(err)
	}
	defer wsConn.Close()

	lc.rpccon = jsonrpc.NewClient(wsConn)

	// single command mode
	if lc.oneshot != "" {
		cmdslice := strings.Fields(lc.oneshot)
		if len(cmdslice) == 0 {
			logging.Fatal("no command given with -c")
		}
		err = lc.Shellparse(cmdslice)
		if err != nil {
			logging.Fatal(err)
		}
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       Prompt("mpc-af") + White("# "),
		HistoryFile:  filepath.Join(lc.mpcHomeDir, historyFilename),
		AutoComplete: lc.NewAutoCompleter(),
	})
	if err != nil {
		logging.Fatal(err)
	}
	defer rl.Close()

	// main shell loop
	for {
		msg, err := rl.Readline()
		if err != nil {
			break
		}
		msg = strings.TrimSpace(msg)
		if len(msg) == 0 {
			continue
		}
		rl.SaveHistory(msg)

		cmdslice := strings.Fields(msg)                         // chop input up on whitespace
		fmt.Fprintf(color.Output, "entered command: %s\n", msg) // immediate feedback

		err = lc.Shellparse(cmdslice)
		if err != nil { // only error should be user exit
			logging.Fatal(err)
		}
	}
}

func (lc *mpcAfClient) Call(serviceMethod string, args interface{}, reply interface{}) error {
	return lc.rpccon.Call(serviceMethod, args, reply)
}
