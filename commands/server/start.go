package server

import (
	"flag"

	"github.com/iov-one/compensation/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
	flagStore = "store"

	// StoreIAVL keeps the state in a merkle tree backed by leveldb.
	StoreIAVL = "iavl"
	// StoreBolt keeps the state in a single bolt file.
	StoreBolt = "bolt"
)

// Options are the settings an AppGenerator builds the application with.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	Store  string
}

type startArgs struct {
	bind  string
	debug bool
	store string
}

func parseFlags(args []string) (startArgs, error) {
	var res startArgs
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&res.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fs.BoolVar(&res.debug, flagDebug, false, "call stack returned on error")
	fs.StringVar(&res.store, flagStore, StoreIAVL, "state storage, iavl or bolt")
	if err := fs.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	switch res.store {
	case StoreIAVL, StoreBolt:
	default:
		return res, errors.Wrapf(errors.ErrInput, "unknown store %q", res.store)
	}
	return res, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is stopped.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(&Options{
		Home:   home,
		Logger: logger,
		Debug:  opts.debug,
		Store:  opts.store,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.bind, "store", opts.store)

	svr, err := server.NewServer(opts.bind, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}

	// Stop upon receiving SIGTERM or CTRL-C.
	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("cannot stop the server", "err", err)
		}
	})

	// Run forever.
	select {}
}
