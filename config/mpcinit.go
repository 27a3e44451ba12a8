package config

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/howeyc/gopass"
	"github.com/jessevdk/go-flags"

	"github.com/F483/counterparty-lib/logging"
)

// createDefaultConfigFile creates a config file -- only call this if the
// config file isn't already there
func createDefaultConfigFile(destinationPath string) error {

	dest, err := os.OpenFile(filepath.Join(destinationPath, DefaultConfigFilename),
		os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer dest.Close()

	writer := bufio.NewWriter(dest)
	defaultArgs := []byte("xcp=" + DefaultXcphost + "\nxcpuser=" + DefaultXcpuser + "\n")
	_, err = writer.Write(defaultArgs)
	if err != nil {
		return err
	}
	writer.Flush()
	return nil
}

// MpcSetup performs most of the setup when mpcd is run, such as setting
// configuration variables and log files, reading and creating files if
// they're not yet there.  It takes in a config, and returns the
// counterparty rpc password.
func MpcSetup(conf *Config) string {
	// Pre-parse the command line options to see if an alternative config
	// file or the help flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preconf := *conf
	preParser := NewConfigParser(&preconf, flags.HelpFlag)
	_, err := preParser.ParseArgs(os.Args)
	if err != nil {
		logging.Fatal(err)
	}
	if preconf.Verbose {
		logging.SetLogLevel(int(logging.LogLevelDebug))
	} else {
		logging.SetLogLevel(int(logging.LogLevelInfo))
	}

	// Load config from file and parse
	parser := NewConfigParser(conf, flags.Default)

	// create home directory
	_, err = os.Stat(preconf.MpcHomeDir)
	if os.IsNotExist(err) {
		os.Mkdir(preconf.MpcHomeDir, 0700)
		logging.Infof("Creating a new config file")
		err := createDefaultConfigFile(preconf.MpcHomeDir)
		if err != nil {
			logging.Fatalf("Error creating a default config file in %v: %v",
				preconf.MpcHomeDir, err)
		}
	}

	if _, err := os.Stat(filepath.Join(
		preconf.MpcHomeDir, DefaultConfigFilename)); os.IsNotExist(err) {
		// if there is no config file found over at the directory, create one
		logging.Infof("Creating a new config file")
		err := createDefaultConfigFile(preconf.MpcHomeDir)
		if err != nil {
			logging.Fatal(err)
		}
	}

	preconf.ConfigFile = filepath.Join(preconf.MpcHomeDir, DefaultConfigFilename)
	// lets parse the config file provided, if any
	err = flags.NewIniParser(parser).ParseFile(preconf.ConfigFile)
	if err != nil {
		_, ok := err.(*os.PathError)
		if !ok {
			logging.Fatal(err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(os.Args) // returns invalid flags
	if err != nil {
		logging.Fatal(err)
	}

	if conf.MainNet && conf.RegTest {
		logging.Fatal("either --mainnet or --reg can be set, but not both")
	}
	conf.Params = &chaincfg.TestNet3Params
	if conf.MainNet {
		conf.Params = &chaincfg.MainNetParams
	}
	if conf.RegTest {
		conf.Params = &chaincfg.RegressionNetParams
	}

	logFilePath := filepath.Join(conf.MpcHomeDir, DefaultLogFilename)

	logfile, err := os.OpenFile(logFilePath,
		os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		logging.Fatal(err)
	}
	logging.SetLogFile(logfile)

	if conf.Verbose {
		logging.SetLogLevel(int(logging.LogLevelDebug))
	} else {
		logging.SetLogLevel(int(logging.LogLevelInfo))
	}

	// the counterparty rpc password stays out of shell history; prompt
	// when neither flag nor config file carry it
	xcppass := conf.Xcppass
	if xcppass == "" {
		pass, err := gopass.GetPasswdPrompt(
			"counterparty rpc password: ", true, os.Stdin, os.Stdout)
		if err != nil {
			logging.Fatal(err)
		}
		xcppass = string(pass)
	}

	return xcppass
}
