package main

import (
	"github.com/chzyer/readline"

	"github.com/F483/counterparty-lib/mpcrpc"
)

// completeHandles asks the connected node for stored channel handles
func (lc *mpcAfClient) completeHandles(line string) []string {
	names := make([]string, 0)
	cReply := new(mpcrpc.ChannelListReply)
	err := lc.Call("MpcRPC.ListChannels", nil, cReply)
	if err != nil {
		return names
	}
	for _, c := range cReply.Channels {
		names = append(names, c.Handle)
	}
	return names
}

func (lc *mpcAfClient) NewAutoCompleter() readline.AutoCompleter {
	var completer = readline.NewPrefixCompleter(
		readline.PcItem("help",
			readline.PcItem("ls"),
			readline.PcItem("show"),
			readline.PcItem("check"),
			readline.PcItem("save"),
			readline.PcItem("rm"),
			readline.PcItem("checkcommit"),
			readline.PcItem("assets"),
			readline.PcItem("stop"),
			readline.PcItem("exit"),
		),
		readline.PcItem("ls"),
		readline.PcItem("show",
			readline.PcItemDynamic(lc.completeHandles)),
		readline.PcItem("check"),
		readline.PcItem("save"),
		readline.PcItem("rm",
			readline.PcItemDynamic(lc.completeHandles)),
		readline.PcItem("checkcommit"),
		readline.PcItem("assets"),
		readline.PcItem("stop"),
		readline.PcItem("exit"),
	)
	return completer
}
