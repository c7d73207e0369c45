package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that do not execute
// transactions: genesis, block boundaries, commits and queries. BaseApp
// embeds it and adds CheckTx and DeliverTx.
//
// Info, InitChain, BeginBlock, EndBlock and Commit do not process user
// input. A failure there leaves the node in an unknown state, so they panic
// instead of returning an error response.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info.
	name string

	store       *CommitStore
	initializer compensation.Initializer
	queryRouter compensation.QueryRouter

	// chainID is empty until InitChain, or loaded from the store on
	// restart.
	chainID string

	// baseContext holds values valid for the life of the process.
	baseContext compensation.Context
	// blockContext extends baseContext with the current block header and
	// is replaced on every BeginBlock.
	blockContext compensation.Context
}

// NewStoreApp panics if the state cannot be loaded from the store.
func NewStoreApp(name string, store compensation.CommitKVStore,
	queryRouter compensation.QueryRouter, baseContext compensation.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = compensation.WithHeight(s.baseContext, info.Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.baseContext = compensation.WithChainID(s.baseContext, chainID)
}

// WithInit sets the initializer that loads the genesis app state.
func (s *StoreApp) WithInit(init compensation.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the application and of every handler
// context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = compensation.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) BlockContext() compensation.Context {
	return s.blockContext
}

// DeliverStore is the view transactions of the current block write to.
func (s *StoreApp) DeliverStore() compensation.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the view mempool checks write to.
func (s *StoreApp) CheckStore() compensation.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis runs only once per chain, on the first InitChain.
func (s *StoreApp) loadGenesis(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "appState previously loaded for chain: %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}
	if s.initializer == nil {
		return errors.Wrap(errors.ErrHuman, "initializer not set")
	}

	var appState compensation.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	return s.initializer.FromGenesis(appState, s.DeliverStore())
}

// Info reports the last committed height and app hash, so that tendermint
// can replay the missing blocks.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		Version:          compensation.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query answers from the last committed state. The request path is a route
// of the query router, optionally followed by "?" and a query mod. Data is
// passed to the handler as is.
//
// Key and Value of the response are ResultSets of equal length, one entry
// per model found.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", req.Path))
	}
	if req.Height != 0 {
		return queryError(errors.Wrap(errors.ErrInput, "historical queries are not supported"))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.QueryStore()
	defer db.Discard()

	models, err := qh.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath returns the route and the mod found after "?".
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, compensation.KeyQueryMod
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

func (s *StoreApp) Commit() (res abci.ResponseCommit) {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain stores the chain id and passes the genesis app state to the
// initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) (res abci.ResponseInitChain) {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	s.logger.Info("Genesis loaded", "chain_id", req.ChainId)
	return abci.ResponseInitChain{}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) (res abci.ResponseBeginBlock) {
	ctx := compensation.WithHeader(s.baseContext, req.Header)
	s.blockContext = compensation.WithHeight(ctx, req.Header.GetHeight())
	return
}

func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) (res abci.ResponseEndBlock) {
	return
}
