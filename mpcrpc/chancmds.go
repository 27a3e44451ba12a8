package mpcrpc

import (
	"fmt"
	"sort"

	"github.com/F483/counterparty-lib/micropay"
)

type StatusReply struct {
	Status string
}

type NoArgs struct {
	// nothin
}

// ------------------------- check / save

type ChannelStateArgs struct {
	State *micropay.State

	// VerifySigs turns on bitcoin signature verification of the commit
	// transactions, which costs one ledger round trip per input.
	VerifySigs bool
}

type HandleReply struct {
	Handle string
}

// ValidateChannelState checks a full channel state against the ledger
// without saving anything.
func (r *MpcRPC) ValidateChannelState(args ChannelStateArgs, reply *HandleReply) error {
	err := micropay.ValidateState(r.Ledger, args.State, r.Params, args.VerifySigs)
	if err != nil {
		return err
	}

	handle, err := args.State.Handle()
	if err != nil {
		return err
	}
	reply.Handle = handle
	return nil
}

// SaveChannelState validates a channel state and persists it under its
// handle if every check passes.  Invalid states never touch the
// database.
func (r *MpcRPC) SaveChannelState(args ChannelStateArgs, reply *HandleReply) error {
	err := micropay.ValidateState(r.Ledger, args.State, r.Params, args.VerifySigs)
	if err != nil {
		return err
	}

	handle, err := r.CDB.SaveState(args.State)
	if err != nil {
		return err
	}
	reply.Handle = handle
	return nil
}

// ------------------------- show / ls / rm

type ChannelArgs struct {
	Handle string
}

type ChannelStateReply struct {
	State *micropay.State
}

// GetChannelState sends back one stored channel state by handle.
func (r *MpcRPC) GetChannelState(args ChannelArgs, reply *ChannelStateReply) error {
	state, err := r.CDB.LoadState(args.Handle)
	if err != nil {
		return err
	}
	reply.State = state
	return nil
}

type ChannelInfo struct {
	Handle           string
	Asset            string
	CommitsRequested int
	CommitsActive    int
	CommitsRevoked   int
}
type ChannelListReply struct {
	Channels []ChannelInfo
}

// ListChannels sends back a line of info for every stored channel.
func (r *MpcRPC) ListChannels(args NoArgs, reply *ChannelListReply) error {
	states, err := r.CDB.ListStates()
	if err != nil {
		return err
	}

	reply.Channels = make([]ChannelInfo, 0, len(states))
	for handle, state := range states {
		reply.Channels = append(reply.Channels, ChannelInfo{
			Handle:           handle,
			Asset:            state.Asset,
			CommitsRequested: len(state.CommitsRequested),
			CommitsActive:    len(state.CommitsActive),
			CommitsRevoked:   len(state.CommitsRevoked),
		})
	}
	sort.Slice(reply.Channels, func(i, j int) bool {
		return reply.Channels[i].Handle < reply.Channels[j].Handle
	})
	return nil
}

// DeleteChannel drops a stored channel state.
func (r *MpcRPC) DeleteChannel(args ChannelArgs, reply *StatusReply) error {
	err := r.CDB.DeleteState(args.Handle)
	if err != nil {
		return err
	}
	reply.Status = fmt.Sprintf("deleted channel %s", args.Handle)
	return nil
}

// ------------------------- checkcommit

type CommitArgs struct {
	RawTx         string
	Asset         string
	DepositScript string
	CommitScript  string
	VerifySigs    bool
}

type CommitReply struct {
	Source      string
	Destination string
	Quantity    int64
}

// ValidateCommit checks a single commit transaction against its channel
// scripts and the ledger.
func (r *MpcRPC) ValidateCommit(args CommitArgs, reply *CommitReply) error {
	sendTx, err := micropay.ValidateCommitTx(r.Ledger, args.RawTx, args.Asset,
		args.DepositScript, args.CommitScript, r.Params, args.VerifySigs)
	if err != nil {
		return err
	}
	reply.Source = sendTx.Source
	reply.Destination = sendTx.Destination
	reply.Quantity = sendTx.Quantity
	return nil
}

// ------------------------- assets

type AssetListReply struct {
	Assets []string
}

// ListAssets asks the ledger for every asset it knows about.
func (r *MpcRPC) ListAssets(args NoArgs, reply *AssetListReply) error {
	assets, err := r.Ledger.GetAssets()
	if err != nil {
		return err
	}
	reply.Assets = make([]string, len(assets))
	for i, a := range assets {
		reply.Assets[i] = a.AssetName
	}
	return nil
}

// ------------------------- stop

func (r *MpcRPC) Stop(args NoArgs, reply *StatusReply) error {
	reply.Status = "Stopping mpc daemon"
	r.OffButton <- true
	return nil
}
