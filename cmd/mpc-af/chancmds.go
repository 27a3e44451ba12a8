package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/fatih/color"

	"github.com/F483/counterparty-lib/micropay"
	"github.com/F483/counterparty-lib/mpcrpc"
)

func (lc *mpcAfClient) Ls(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, lsCommand.Format)
		fmt.Fprintf(color.Output, lsCommand.Description)
		return nil
	}

	cReply := new(mpcrpc.ChannelListReply)
	err := lc.Call("MpcRPC.ListChannels", nil, cReply)
	if err != nil {
		return err
	}

	if len(cReply.Channels) == 0 {
		fmt.Fprintf(color.Output, "no channels\n")
		return nil
	}
	fmt.Fprintf(color.Output, "\t%s\n", Header("Channels:"))
	for _, c := range cReply.Channels {
		fmt.Fprintf(color.Output,
			"%s %s requested: %d active: %d revoked: %d\n",
			Handle(c.Handle), White(c.Asset),
			c.CommitsRequested, c.CommitsActive, c.CommitsRevoked)
	}
	return nil
}

func (lc *mpcAfClient) Show(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, showCommand.Format)
		fmt.Fprintf(color.Output, showCommand.Description)
		return nil
	}
	if len(textArgs) < 1 {
		return fmt.Errorf(showCommand.Format)
	}

	reply := new(mpcrpc.ChannelStateReply)
	args := mpcrpc.ChannelArgs{Handle: textArgs[0]}
	err := lc.Call("MpcRPC.GetChannelState", args, reply)
	if err != nil {
		return err
	}

	state := reply.State
	fmt.Fprintf(color.Output, "%s %s\n", Header("handle:"), Handle(textArgs[0]))
	fmt.Fprintf(color.Output, "%s %s\n", Header("asset:"), White(state.Asset))
	fmt.Fprintf(color.Output, "%s %s\n", Header("deposit script:"), state.DepositScript)
	fmt.Fprintf(color.Output, "%s %d\n",
		Header("commits requested:"), len(state.CommitsRequested))
	for _, revokeHash := range state.CommitsRequested {
		fmt.Fprintf(color.Output, "  %s\n", revokeHash)
	}
	fmt.Fprintf(color.Output, "%s %d\n",
		Header("commits active:"), len(state.CommitsActive))
	for _, commit := range state.CommitsActive {
		fmt.Fprintf(color.Output, "  %s %s\n", Green("script"), commit.Script)
		fmt.Fprintf(color.Output, "  %s  %s\n", Green("rawtx"), commit.RawTx)
	}
	fmt.Fprintf(color.Output, "%s %d\n",
		Header("commits revoked:"), len(state.CommitsRevoked))
	for _, commit := range state.CommitsRevoked {
		fmt.Fprintf(color.Output, "  %s %s\n", Red("script"), commit.Script)
		fmt.Fprintf(color.Output, "  %s %s\n", Red("secret"), commit.RevokeSecret)
	}
	return nil
}

// loadStateFile reads a channel state from a JSON file on disk
func (lc *mpcAfClient) loadStateFile(path string) (*micropay.State, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state := new(micropay.State)
	err = json.Unmarshal(raw, state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (lc *mpcAfClient) Check(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, checkCommand.Format)
		fmt.Fprintf(color.Output, checkCommand.Description)
		return nil
	}
	if len(textArgs) < 1 {
		return fmt.Errorf(checkCommand.Format)
	}

	state, err := lc.loadStateFile(textArgs[0])
	if err != nil {
		return err
	}

	args := mpcrpc.ChannelStateArgs{
		State:      state,
		VerifySigs: len(textArgs) > 1 && textArgs[1] == "sig",
	}
	reply := new(mpcrpc.HandleReply)
	err = lc.Call("MpcRPC.ValidateChannelState", args, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "%s channel %s\n", Green("valid"), Handle(reply.Handle))
	return nil
}

func (lc *mpcAfClient) Save(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, saveCommand.Format)
		fmt.Fprintf(color.Output, saveCommand.Description)
		return nil
	}
	if len(textArgs) < 1 {
		return fmt.Errorf(saveCommand.Format)
	}

	state, err := lc.loadStateFile(textArgs[0])
	if err != nil {
		return err
	}

	args := mpcrpc.ChannelStateArgs{
		State:      state,
		VerifySigs: len(textArgs) > 1 && textArgs[1] == "sig",
	}
	reply := new(mpcrpc.HandleReply)
	err = lc.Call("MpcRPC.SaveChannelState", args, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "%s channel %s\n", Green("saved"), Handle(reply.Handle))
	return nil
}

func (lc *mpcAfClient) Rm(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, rmCommand.Format)
		fmt.Fprintf(color.Output, rmCommand.Description)
		return nil
	}
	if len(textArgs) < 1 {
		return fmt.Errorf(rmCommand.Format)
	}

	reply := new(mpcrpc.StatusReply)
	args := mpcrpc.ChannelArgs{Handle: textArgs[0]}
	err := lc.Call("MpcRPC.DeleteChannel", args, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "%s\n", reply.Status)
	return nil
}

func (lc *mpcAfClient) CheckCommit(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, checkcommitCommand.Format)
		fmt.Fprintf(color.Output, checkcommitCommand.Description)
		return nil
	}
	if len(textArgs) < 4 {
		return fmt.Errorf(checkcommitCommand.Format)
	}

	args := mpcrpc.CommitArgs{
		RawTx:         textArgs[0],
		Asset:         textArgs[1],
		DepositScript: textArgs[2],
		CommitScript:  textArgs[3],
		VerifySigs:    len(textArgs) > 4 && textArgs[4] == "sig",
	}
	reply := new(mpcrpc.CommitReply)
	err := lc.Call("MpcRPC.ValidateCommit", args, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "%s pays %d %s from %s to %s\n",
		Green("valid"), reply.Quantity, White(args.Asset),
		reply.Source, reply.Destination)
	return nil
}

func (lc *mpcAfClient) Assets(textArgs []string) error {
	if len(textArgs) > 0 && textArgs[0] == "-h" {
		fmt.Fprintf(color.Output, assetsCommand.Format)
		fmt.Fprintf(color.Output, assetsCommand.Description)
		return nil
	}

	reply := new(mpcrpc.AssetListReply)
	err := lc.Call("MpcRPC.ListAssets", nil, reply)
	if err != nil {
		return err
	}

	fmt.Fprintf(color.Output, "\t%s\n", Header("Assets:"))
	for _, asset := range reply.Assets {
		fmt.Fprintf(color.Output, "%s\n", White(asset))
	}
	return nil
}
