package state

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/smartwallet/authority"
	"github.com/dogechain-lab/smartwallet/contracts/smartwallet"
	"github.com/dogechain-lab/smartwallet/helper/keccak"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Request is one submission: an authorization list followed by an optional
// call to Account. The executor is whoever relays it, the account itself
// when self submitted.
type Request struct {
	Executor          types.Address
	Account           types.Address
	AuthorizationList []*types.Authorization
	Input             []byte
}

var requestArenaPool fastrlp.ArenaPool

// Hash identifies the request
func (r *Request) Hash() (h types.Hash) {
	ar := requestArenaPool.Get()
	hash := keccak.DefaultKeccakPool.Get()

	defer func() {
		keccak.DefaultKeccakPool.Put(hash)
		requestArenaPool.Put(ar)
	}()

	list := ar.NewArray()
	for _, auth := range r.AuthorizationList {
		if auth != nil {
			list.Set(auth.MarshalRLPWith(ar))
		}
	}

	vv := ar.NewArray()
	vv.Set(ar.NewBytes(r.Executor.Bytes()))
	vv.Set(ar.NewBytes(r.Account.Bytes()))
	vv.Set(list)
	vv.Set(ar.NewCopyBytes(r.Input))

	hash.WriteRlp(h[:0], vv)

	return h
}

// AuthResult is the outcome of one authorization of the list
type AuthResult struct {
	Index     int
	Authority types.Address // zero when the signer could not be recovered
	Err       error         // nil, informational or fatal, see IsFatal
}

// Outcome reports a submission
type Outcome struct {
	TxHash types.Hash

	// Success is set when every authorization and the call succeeded
	Success bool
	// Reverted is set when nothing of the request was committed
	Reverted bool

	Results    []AuthResult
	ReturnData []byte
	CallErr    error

	// Err aggregates every failure above
	Err error
}

// Transition applies one request on a transaction
type Transition struct {
	logger   hclog.Logger
	config   *Config
	registry *authority.Registry
	txn      *Txn

	// set once initialize succeeded
	initialized bool
}

func newTransition(logger hclog.Logger, config *Config, registry *authority.Registry, txn *Txn) *Transition {
	return &Transition{
		logger:   logger,
		config:   config,
		registry: registry,
		txn:      txn,
	}
}

// authorize consumes one authorization. A fatal failure leaves the
// transaction as it was.
func (t *Transition) authorize(index int, auth *types.Authorization) AuthResult {
	res := AuthResult{Index: index}

	if auth == nil {
		res.Err = fmt.Errorf("%w: nil authorization", authority.ErrBadSignature)

		return res
	}

	if err := t.registry.CheckChain(auth); err != nil {
		res.Err = err

		return res
	}

	signer, err := t.registry.Authority(auth)
	if err != nil {
		res.Err = err

		return res
	}

	res.Authority = signer

	snap := t.txn.Snapshot()

	if err := t.registry.CheckAndConsume(t.txn, signer, auth); err != nil {
		t.txn.RevertToSnapshot(snap)
		res.Err = err

		return res
	}

	if err := t.applyAuthorization(signer, auth); IsFatal(err) {
		t.txn.RevertToSnapshot(snap)
		res.Err = err

		return res
	} else if err != nil {
		res.Err = err
	}

	return res
}

// call runs the wallet entry point addressed by input
func (t *Transition) call(account types.Address, input []byte) ([]byte, error) {
	ref, err := t.txn.GetCode(account)
	if err != nil {
		return nil, err
	}

	if ref == types.ZeroAddress {
		return nil, ErrNoCode
	}

	c, err := smartwallet.DecodeCall(input)
	if err != nil {
		return nil, err
	}

	switch c.Method {
	case smartwallet.MethodInitialize:
		if err := guardInitialize(t.txn, account, c.Owner); err != nil {
			return nil, err
		}

		t.initialized = true
		t.logger.Debug("initialized", "account", account, "owner", c.Owner)

		return nil, nil
	case smartwallet.MethodOwner:
		owner, _, err := t.txn.GetOwner(account)
		if err != nil {
			return nil, err
		}

		return smartwallet.EncodeOwnerResult(owner)
	default:
		return nil, fmt.Errorf("%w: %s", smartwallet.ErrUnknownSelector, c.Method)
	}
}

// Apply runs the request: authorizations in list order, then the call.
// The transaction is rolled back to where it started when a policy asks
// for the whole request to revert.
func (t *Transition) Apply(req *Request) *Outcome {
	out := &Outcome{
		TxHash:  req.Hash(),
		Results: make([]AuthResult, 0, len(req.AuthorizationList)),
	}

	start := t.txn.Snapshot()

	var errs *multierror.Error

	for i, auth := range req.AuthorizationList {
		res := t.authorize(i, auth)
		out.Results = append(out.Results, res)

		if IsFatal(res.Err) {
			errs = multierror.Append(errs, fmt.Errorf("authorization %d: %w", i, res.Err))
		}
	}

	if errs != nil && t.config.BatchPolicy == Atomic {
		t.txn.RevertToSnapshot(start)

		out.Reverted = true
		out.Err = errs.ErrorOrNil()

		return out
	}

	if len(req.Input) != 0 {
		out.ReturnData, out.CallErr = t.call(req.Account, req.Input)

		if out.CallErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("call: %w", out.CallErr))

			if t.config.InitAtomicity == Atomic {
				t.txn.RevertToSnapshot(start)

				out.Reverted = true
				t.initialized = false
			}
		}
	}

	out.Err = errs.ErrorOrNil()
	out.Success = out.Err == nil

	return out
}
