package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dogechain-lab/smartwallet/authority"
	"github.com/dogechain-lab/smartwallet/contracts/smartwallet"
	"github.com/dogechain-lab/smartwallet/crypto"
	"github.com/dogechain-lab/smartwallet/helper/telemetry"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyCode = errors.New("empty code image")

// codeRefPrefix separates code references from account addresses
const codeRefPrefix byte = 0xff

// CodeRef returns the content address of a code image
func CodeRef(image []byte) types.Address {
	return types.BytesToAddress(crypto.Keccak256([]byte{codeRefPrefix}, image)[12:])
}

// Executor is the only write path into the account state. Every submission
// locks the accounts it touches and commits as one batch.
type Executor struct {
	logger   hclog.Logger
	config   *Config
	store    *Store
	registry *authority.Registry
	metrics  *Metrics
	tracer   telemetry.Tracer

	locks *lockTable

	inflight atomic.Int64
}

func NewExecutor(
	logger hclog.Logger,
	config *Config,
	store *Store,
	registry *authority.Registry,
	metrics *Metrics,
	tracer telemetry.Tracer,
) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if registry.ChainID() != config.ChainID {
		return nil, fmt.Errorf("registry chain id %d, config chain id %d", registry.ChainID(), config.ChainID)
	}

	if metrics == nil {
		metrics = NilMetrics()
	}

	if tracer == nil {
		tracer = telemetry.NewNilTracerProvider().NewTracer("executor")
	}

	return &Executor{
		logger:   logger.Named("executor"),
		config:   config,
		store:    store,
		registry: registry,
		metrics:  metrics,
		tracer:   tracer,
		locks:    newLockTable(),
	}, nil
}

// Deploy stores a code image and returns its reference. Deploying the same
// image twice returns the same reference.
func (e *Executor) Deploy(image []byte) (types.Address, error) {
	if len(image) == 0 {
		return types.ZeroAddress, ErrEmptyCode
	}

	ref := CodeRef(image)

	if err := e.store.PutCode(ref, types.CopyBytes(image)); err != nil {
		return types.ZeroAddress, err
	}

	e.logger.Info("deployed code", "ref", ref, "size", len(image))

	return ref, nil
}

// touched returns the accounts a request may write
func (e *Executor) touched(req *Request) []types.Address {
	addrs := make([]types.Address, 0, len(req.AuthorizationList)+1)

	for _, auth := range req.AuthorizationList {
		if auth == nil {
			continue
		}

		if signer, err := e.registry.Authority(auth); err == nil {
			addrs = append(addrs, signer)
		}
	}

	if len(req.Input) != 0 {
		addrs = append(addrs, req.Account)
	}

	return addrs
}

// Submit applies a request and commits its effects
func (e *Executor) Submit(ctx context.Context, req *Request) *Outcome {
	if err := ctx.Err(); err != nil {
		return &Outcome{TxHash: req.Hash(), Reverted: true, Err: err}
	}

	span := e.tracer.Start(ctx, "executor.Submit")
	defer span.End()

	begin := time.Now()

	e.inflight.Inc()
	defer e.inflight.Dec()

	release := e.locks.lockAll(e.touched(req))
	defer release()

	transition := newTransition(e.logger, e.config, e.registry, e.store.NewTxn())
	out := transition.Apply(req)

	if err := e.store.Commit(transition.txn.Commit()); err != nil {
		e.logger.Error("failed to commit request", "hash", out.TxHash, "err", err)

		out.Success = false
		out.Reverted = true
		out.Err = multierror.Append(out.Err, err).ErrorOrNil()
		transition.initialized = false
	}

	if transition.initialized {
		e.metrics.initialized()
	}

	e.metrics.observe(out, begin)

	span.SetAttributes(map[string]interface{}{
		"hash":           out.TxHash,
		"executor":       req.Executor,
		"account":        req.Account,
		"authorizations": len(req.AuthorizationList),
		"success":        out.Success,
		"reverted":       out.Reverted,
	})

	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(telemetry.Error, "submission failed")
	} else {
		span.SetStatus(telemetry.Ok, "")
	}

	e.logger.Debug("submitted",
		"hash", out.TxHash,
		"executor", req.Executor,
		"account", req.Account,
		"success", out.Success,
		"reverted", out.Reverted,
	)

	return out
}

// SubmitAll submits requests concurrently. Requests on disjoint accounts do
// not wait for each other. Requests not started when ctx is done report
// the context error.
func (e *Executor) SubmitAll(ctx context.Context, reqs []*Request) ([]*Outcome, error) {
	outs := make([]*Outcome, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if e.config.MaxParallel > 0 {
		g.SetLimit(e.config.MaxParallel)
	}

	for i, req := range reqs {
		i, req := i, req

		g.Go(func() error {
			outs[i] = e.Submit(gctx, req)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outs, err
	}

	return outs, ctx.Err()
}

// Inflight returns the number of submissions being applied
func (e *Executor) Inflight() int64 {
	return e.inflight.Load()
}

// GetNonce returns the committed authorization nonce of account
func (e *Executor) GetNonce(account types.Address) (uint64, error) {
	acc, err := e.store.GetAccount(account)
	if err != nil {
		return 0, err
	}

	return acc.Nonce, nil
}

// GetCode returns the code reference account is delegated to, zero if none
func (e *Executor) GetCode(account types.Address) (types.Address, error) {
	acc, err := e.store.GetAccount(account)
	if err != nil {
		return types.ZeroAddress, err
	}

	return acc.CodeRef, nil
}

// GetCodeBytes returns the delegation designator of account, empty if none
func (e *Executor) GetCodeBytes(account types.Address) ([]byte, error) {
	ref, err := e.GetCode(account)
	if err != nil {
		return nil, err
	}

	return types.DelegationCode(ref), nil
}

// GetCodeImage returns the image deployed under ref
func (e *Executor) GetCodeImage(ref types.Address) ([]byte, error) {
	image, ok, err := e.store.GetCodeImage(ref)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrUnknownCode
	}

	return image, nil
}

// GetOwner returns the owner of account and whether it was initialized
func (e *Executor) GetOwner(account types.Address) (types.Address, bool, error) {
	acc, err := e.store.GetAccount(account)
	if err != nil {
		return types.ZeroAddress, false, err
	}

	owner, ok := acc.Latch.Owner()

	return owner, ok, nil
}

func (e *Executor) IsInitialized(account types.Address) (bool, error) {
	_, ok, err := e.GetOwner(account)

	return ok, err
}

// Call runs a read only call against the committed state. Only owner()
// is read only, initialize goes through Submit.
func (e *Executor) Call(account types.Address, input []byte) ([]byte, error) {
	c, err := smartwallet.DecodeCall(input)
	if err != nil {
		return nil, err
	}

	if c.Method != smartwallet.MethodOwner {
		return nil, fmt.Errorf("%s is not a read only call", c.Method)
	}

	return newTransition(e.logger, e.config, e.registry, e.store.NewTxn()).call(account, input)
}
