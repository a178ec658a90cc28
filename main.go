package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfm/market"
	"github.com/MixinNetwork/nfm/mtg"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/MixinNetwork/nfm/store"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	runSubCmd     = "run"
	inspectSubCmd = "inspect"
	verifySubCmd  = "verify"
)

type configFlags struct {
	Config string `short:"c" long:"config" default:"~/.mixin/nfm/config.toml" description:"configuration file path"`
	Dir    string `short:"d" long:"dir" default:"~/.mixin/nfm/data" description:"database directory path"`
}

type runConfig struct{}

type inspectConfig struct {
	Owner string `short:"o" long:"owner" description:"list the tokens of this owner"`
	Limit int    `short:"n" long:"limit" default:"20" description:"maximum rows per section"`
}

type verifyConfig struct{}

func main() {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	runConf := &runConfig{}
	parser.AddCommand(runSubCmd, "Run the market", "Drains the group outputs and applies them to the ledger", runConf)
	inspectConf := &inspectConfig{}
	parser.AddCommand(inspectSubCmd, "Inspect the ledger", "Prints supply, listings, owned tokens and pending transactions", inspectConf)
	verifyConf := &verifyConfig{}
	parser.AddCommand(verifySubCmd, "Verify the ledger", "Replays the action history and compares it with the stored ledger", verifyConf)

	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := Setup(expandHome(cfg.Config))
	if err != nil {
		printErrorAndExit(err)
	}
	logger.SetLevel(conf.Logger.Level)

	db, err := store.OpenBadger(ctx, expandHome(cfg.Dir))
	if err != nil {
		printErrorAndExit(err)
	}
	defer db.Close()

	mkt, err := market.Open(ctx, db, &conf.Market)
	if err != nil {
		printErrorAndExit(err)
	}

	switch parser.Command.Active.Name {
	case runSubCmd:
		err = runMarket(ctx, db, mkt, conf)
	case inspectSubCmd:
		err = inspectMarket(db, mkt, inspectConf)
	case verifySubCmd:
		err = mkt.Verify(ctx)
		if err == nil {
			fmt.Printf("ledger verified at sequence %d\n", mkt.Sequence())
		}
	}
	if err != nil {
		printErrorAndExit(err)
	}
}

func runMarket(ctx context.Context, db *store.BadgerStore, mkt *market.Market, conf *Configuration) error {
	group, err := mtg.BuildGroup(ctx, db, &conf.MTG)
	if err != nil {
		return err
	}
	group.AddWorker(NewMarketWorker(mkt, group, conf.Worker.AssetId))
	group.Run(ctx)
	return nil
}

func inspectMarket(db *store.BadgerStore, mkt *market.Market, conf *inspectConfig) error {
	fmt.Printf("sequence %d supply %d listed %d fee %s admin %s\n", mkt.Sequence(),
		mkt.TotalSupply(), mkt.ListedItemsCount(), nft.FormatUnits(mkt.ListingFee()), mkt.Admin())

	for i, t := range mkt.AllNftsOnSale() {
		if i == conf.Limit {
			break
		}
		fmt.Printf("listed %d %s %s by %s\n", t.Id, nft.FormatUnits(t.Price), t.URI, t.Owner)
	}

	if conf.Owner != "" {
		owner, err := uuid.FromString(conf.Owner)
		if err != nil {
			return err
		}
		for _, t := range mkt.OwnedNfts(owner) {
			fmt.Printf("owned %d %s listed %v\n", t.Id, t.URI, t.IsListed)
		}
		fmt.Printf("proceeds %s\n", nft.FormatUnits(mkt.ProceedsOf(owner)))
	}

	txs, err := db.ListTransactions(mtg.TransactionStateInitial, conf.Limit)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		fmt.Printf("pending %s %s %s to %v\n", tx.TraceId, tx.Amount, tx.Memo, tx.Receivers)
	}
	outs, err := db.ListOutputs(mixin.UTXOStateUnspent, conf.Limit)
	if err != nil {
		return err
	}
	fmt.Printf("unspent outputs %d\n", len(outs))
	return nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
