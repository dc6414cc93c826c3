package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/session/filestore"
)

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	logger := logsvc.New(zl.Named("cli"), conf)

	// start CLI
	cli := commandLine{
		conf:     conf,
		logger:   logger,
		api:      apiclient.New(conf.API.BaseURL, nil, apiclient.WithTimeout(conf.API.Timeout)),
		sessions: filestore.New(conf.Session.Dir),
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	_ = zl.Sync()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
