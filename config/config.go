package config

import (
	"os"

	"github.com/btcsuite/btcd/chaincfg"
	flags "github.com/jessevdk/go-flags"
)

type Config struct { // define a struct for usage with go-flags
	Xcphost    string `long:"xcp" description:"Counterparty server API URL, http://host:port"`
	Xcpuser    string `long:"xcpuser" description:"Counterparty server rpc user"`
	Xcppass    string `long:"xcppass" description:"Counterparty server rpc password, prompted for when not set"`
	MainNet    bool   `long:"mainnet" description:"Use bitcoin mainnet address encoding"`
	RegTest    bool   `long:"reg" description:"Use bitcoin regtest address encoding (default is testnet3)"`
	MpcHomeDir string `long:"dir" description:"Specify home directory of mpcd as an absolute path"`
	ConfigFile string
	ProxyURL   string `long:"proxy" description:"SOCKS5 proxy to use for communicating with the counterparty server"`

	Verbose bool `short:"v" long:"verbose" description:"Set verbosity to true."`

	Rpcport uint16 `short:"p" long:"rpcport" description:"Set RPC port to listen on"`
	Rpchost string `long:"rpchost" description:"Set RPC host to listen to"`

	Nat string `long:"nat" description:"Attempt NAT traversal for the RPC port, upnp or pmp"`

	Params *chaincfg.Params
}

var (
	DefaultMpcHomeDirName = os.Getenv("HOME") + "/.mpcd"
	DefaultConfigFilename = "mpcd.conf"
	DefaultChanDBFilename = "chan.db"
	DefaultLogFilename    = "mpcd.log"
	DefaultXcphost        = "http://127.0.0.1:14000"
	DefaultXcpuser        = "rpc"
	DefaultRpcport        = uint16(8001)
	DefaultRpchost        = "localhost"
)

// NewConfigParser returns a new command line flags parser.
func NewConfigParser(conf *Config, options flags.Options) *flags.Parser {
	parser := flags.NewParser(conf, options)
	return parser
}
