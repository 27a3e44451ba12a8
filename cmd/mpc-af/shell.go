package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/F483/counterparty-lib/mpcrpc"
)

var lsCommand = &Command{
	Format:           fmt.Sprintf("%s\n", White("ls")),
	Description:      "Show handle, asset and commit counts for every stored channel.\n",
	ShortDescription: "Show every stored channel.\n",
}

var showCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", White("show"), ReqColor("handle")),
	Description:      "Show the full state of one stored channel.\n",
	ShortDescription: "Show the full state of one stored channel.\n",
}

var checkCommand = &Command{
	Format: fmt.Sprintf("%s%s%s\n", White("check"), ReqColor("file"), OptColor("sig")),
	Description: "Validate the channel state in the given JSON file against the ledger.\n" +
		"Add sig to also verify the bitcoin signatures of the commit transactions.\n",
	ShortDescription: "Validate a channel state file.\n",
}

var saveCommand = &Command{
	Format: fmt.Sprintf("%s%s%s\n", White("save"), ReqColor("file"), OptColor("sig")),
	Description: "Validate the channel state in the given JSON file and store it if valid.\n" +
		"Add sig to also verify the bitcoin signatures of the commit transactions.\n",
	ShortDescription: "Validate and store a channel state file.\n",
}

var rmCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", White("rm"), ReqColor("handle")),
	Description:      "Drop a stored channel state.\n",
	ShortDescription: "Drop a stored channel state.\n",
}

var checkcommitCommand = &Command{
	Format: fmt.Sprintf("%s%s%s\n", White("checkcommit"),
		ReqColor("rawtx", "asset", "deposit", "commit"), OptColor("sig")),
	Description: "Validate a single commit transaction against its channel scripts.\n" +
		"Add sig to also verify its bitcoin signatures.\n",
	ShortDescription: "Validate a single commit transaction.\n",
}

var assetsCommand = &Command{
	Format:           fmt.Sprintf("%s\n", White("assets")),
	Description:      "List every asset the ledger knows about.\n",
	ShortDescription: "List every asset the ledger knows about.\n",
}

var stopCommand = &Command{
	Format:           fmt.Sprintf("%s\n", White("stop")),
	Description:      "Shut down the connected mpc daemon.\n",
	ShortDescription: "Shut down the connected mpc daemon.\n",
}

var exitCommand = &Command{
	Format:           fmt.Sprintf("%s\n", White("exit")),
	Description:      fmt.Sprintf("Alias: %s\nExit the interactive shell.\n", White("quit")),
	ShortDescription: fmt.Sprintf("Alias: %s\nExit the interactive shell.\n", White("quit")),
}

var helpCommand = &Command{
	Format:           fmt.Sprintf("%s%s\n", White("help"), OptColor("command")),
	Description:      "Show information about a given command\n",
	ShortDescription: "Show information about a given command\n",
}

// Shellparse parses user input and hands it to command functions if matching
func (lc *mpcAfClient) Shellparse(cmdslice []string) error {
	var err error
	var args []string

	cmd := cmdslice[0]

	if len(cmdslice) > 1 {
		args = cmdslice[1:]
	}
	if cmd == "exit" || cmd == "quit" {
		return lc.Exit(args)
	}
	if cmd == "help" {
		err = lc.Help(args)
		if err != nil {
			fmt.Fprintf(color.Output, "help error: %s\n", err)
		}
		return nil
	}
	if cmd == "ls" {
		err = lc.Ls(args)
		if err != nil {
			fmt.Fprintf(color.Output, "ls error: %s\n", err)
		}
		return nil
	}
	if cmd == "show" {
		err = lc.Show(args)
		if err != nil {
			fmt.Fprintf(color.Output, "show error: %s\n", err)
		}
		return nil
	}
	if cmd == "check" {
		err = lc.Check(args)
		if err != nil {
			fmt.Fprintf(color.Output, "check error: %s\n", err)
		}
		return nil
	}
	if cmd == "save" {
		err = lc.Save(args)
		if err != nil {
			fmt.Fprintf(color.Output, "save error: %s\n", err)
		}
		return nil
	}
	if cmd == "rm" {
		err = lc.Rm(args)
		if err != nil {
			fmt.Fprintf(color.Output, "rm error: %s\n", err)
		}
		return nil
	}
	if cmd == "checkcommit" {
		err = lc.CheckCommit(args)
		if err != nil {
			fmt.Fprintf(color.Output, "checkcommit error: %s\n", err)
		}
		return nil
	}
	if cmd == "assets" {
		err = lc.Assets(args)
		if err != nil {
			fmt.Fprintf(color.Output, "assets error: %s\n", err)
		}
		return nil
	}
	if cmd == "stop" { // stops the remote node
		return lc.Stop(args)
	}

	fmt.Fprintf(color.Output, "Command not recognized. type help for command list.\n")
	return nil
}

func (lc *mpcAfClient) Exit(textArgs []string) error {
	if len(textArgs) > 0 {
		if len(textArgs) == 1 && textArgs[0] == "-h" {
			fmt.Fprintf(color.Output, exitCommand.Format)
			fmt.Fprintf(color.Output, exitCommand.Description)
			return nil
		}
		fmt.Fprintf(color.Output, "Unexpected argument: "+textArgs[0])
		return nil
	}
	return fmt.Errorf("User exit")
}

func (lc *mpcAfClient) Stop(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, stopCommand.Format)
		fmt.Fprintf(color.Output, stopCommand.Description)
		return nil
	}

	reply := new(mpcrpc.StatusReply)
	err := lc.Call("MpcRPC.Stop", nil, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "%s\n", reply.Status)

	lc.rpccon.Close()
	return fmt.Errorf("stopped mpc daemon")
}

func (lc *mpcAfClient) Help(textArgs []string) error {
	if len(textArgs) == 0 {
		fmt.Fprintf(color.Output, "commands:\n")
		fmt.Fprintf(color.Output, "%s\t%s", helpCommand.Format, helpCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", lsCommand.Format, lsCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", showCommand.Format, showCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", checkCommand.Format, checkCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", saveCommand.Format, saveCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", rmCommand.Format, rmCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", checkcommitCommand.Format, checkcommitCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", assetsCommand.Format, assetsCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", stopCommand.Format, stopCommand.ShortDescription)
		fmt.Fprintf(color.Output, "%s\t%s", exitCommand.Format, exitCommand.ShortDescription)
		return nil
	}
	if textArgs[0] == "help" || textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, helpCommand.Format)
		fmt.Fprintf(color.Output, helpCommand.Description)
		return nil
	}
	res := make([]string, 0)
	res = append(res, textArgs[0])
	res = append(res, "-h")
	return lc.Shellparse(res)
}
