// escrowd maintains a token swap ledger on disk.
//
//	escrowd init -home=<dir> -genesis=<file>   seed a fresh database
//	escrowd query -home=<dir> -path=<path> -data=<hex>
//	escrowd version
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/app"
	"github.com/tokentrust/escrow/store/iavl"
	"github.com/tokentrust/escrow/utils"
	"github.com/tokentrust/escrow/x/auth"
	"github.com/tokentrust/escrow/x/holdings"
	"github.com/tokentrust/escrow/x/trade"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: escrowd <init|query|version> [flags]")
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

// newApplication wires the full stack on a leveldb backed store
func newApplication(homeDir string, logger log.Logger) (*app.Application, error) {
	commitStore, err := iavl.NewCommitStore(homeDir, "escrow")
	if err != nil {
		return nil, err
	}

	authenticator := auth.Authenticate{}
	router := app.NewRouter()
	trade.RegisterRoutes(router, authenticator, holdings.NewController())

	queries := escrow.NewQueryRouter()
	trade.RegisterQuery(queries)
	holdings.RegisterQuery(queries)

	handler := app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		auth.NewDecorator(),
	).WithHandler(router)

	a := app.NewApplication(commitStore, handler, queries, logger)
	if err := a.LoadState(); err != nil {
		return nil, err
	}
	return a, nil
}

func runInit(args []string) error {
	flags := flag.NewFlagSet("init", flag.ExitOnError)
	homeDir := flags.String("home", ".escrowd", "directory for the database")
	genesisFile := flags.String("genesis", "genesis.json", "genesis file with the initial holdings")
	if err := flags.Parse(args); err != nil {
		return err
	}

	raw, err := ioutil.ReadFile(*genesisFile)
	if err != nil {
		return err
	}
	var opts escrow.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return err
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	a, err := newApplication(*homeDir, logger)
	if err != nil {
		return err
	}
	if err := a.InitChain(opts, &holdings.Initializer{}); err != nil {
		return err
	}

	id := a.Commit()
	fmt.Printf("initialized version %d with root %X\n", id.Version, id.Hash)
	return nil
}

func runQuery(args []string) error {
	flags := flag.NewFlagSet("query", flag.ExitOnError)
	homeDir := flags.String("home", ".escrowd", "directory for the database")
	path := flags.String("path", "/holdings", "query path")
	mod := flags.String("mod", "", "query modifier, empty for key lookup or \"prefix\"")
	data := flags.String("data", "", "hex encoded key or prefix")
	if err := flags.Parse(args); err != nil {
		return err
	}

	key, err := hex.DecodeString(*data)
	if err != nil {
		return err
	}

	a, err := newApplication(*homeDir, log.NewNopLogger())
	if err != nil {
		return err
	}

	models, err := a.Query(*path, *mod, key)
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Printf("%X\t%X\n", m.Key, m.Value)
	}
	return nil
}
