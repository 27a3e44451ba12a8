// Package xcpd is a JSON-RPC 2.0 client for the counterparty server
// API, adapting it to the micropay.Ledger interface.
package xcpd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"

	"github.com/F483/counterparty-lib/logging"
)

// rpcTimeout caps one API round trip. Generous because get_tx_info
// parses the transaction server side.
const rpcTimeout = time.Second * 30

type Client struct {
	url      string
	username string
	password string

	http *http.Client

	idMtx  sync.Mutex
	nextID uint64
}

// New returns a client for the counterparty server at the given base
// URL ("http://host:14000"). The credentials go into HTTP basic auth on
// every request. If proxyAddr is not empty, all API traffic is routed
// through that SOCKS5 proxy.
func New(serverURL, username, password, proxyAddr string) (*Client, error) {
	transport := &http.Transport{}
	if proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport.Dial = dialer.Dial
	}

	return &Client{
		url:      strings.TrimSuffix(serverURL, "/") + "/api/",
		username: username,
		password: password,
		http: &http.Client{
			Timeout:   rpcTimeout,
			Transport: transport,
		},
	}, nil
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// fields have to be exported or the json unmarshaller won't populate them
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error reply from the counterparty server.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("counterparty rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(method string, params, result interface{}) error {
	c.idMtx.Lock()
	id := c.nextID
	c.nextID++
	c.idMtx.Unlock()

	reqBytes, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.url, bytes.NewBuffer(reqBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	logging.Debugf("xcpd call %s id %d\n", method, id)
	response, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("counterparty server returned %s", response.Status)
	}

	var reply rpcResponse
	err = json.NewDecoder(response.Body).Decode(&reply)
	if err != nil {
		return fmt.Errorf("bad reply from counterparty server: %s", err.Error())
	}
	if reply.Error != nil {
		return reply.Error
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(reply.Result, result)
}
