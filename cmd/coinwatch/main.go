// Command coinwatch is a terminal front end for the crypto tracker
// backend: watchlist, purchase lots, price alerts, and on-demand OHLC
// views over an authenticated session.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"coinwatch/internal/api"
	"coinwatch/internal/auth"
	"coinwatch/internal/config"
	"coinwatch/internal/dashboard"
	"coinwatch/internal/domain"
	"coinwatch/internal/format"
	"coinwatch/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: coinwatch <command> [flags]

Commands:
  register    create an account
  login       obtain a session token
  logout      discard the session token
  dashboard   render the watchlist with prices, lots, and alerts
  watch       add/rm a coin on the watchlist
  alert       add/rm a price-target alert
  lot         add/rm a purchase lot
  coins       list the coin catalog
  markets     market views: top100 prices, trending, 24h movers
  history     daily OHLC bars for a coin
  chart       candles for a coin
  refresh     ask the backend to re-ingest prices
`)
}

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	app := newApp(cfg)
	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			// The client already cleared the token and "navigated".
			os.Exit(1)
		}
		fatal("%s: %v", os.Args[1], api.ErrorDetail(err))
	}
}

func fatal(formatStr string, args ...any) {
	fmt.Fprintf(os.Stderr, formatStr+"\n", args...)
	os.Exit(1)
}

type app struct {
	cfg    *config.Config
	tokens *auth.FileTokenStore
	client *api.Client
	gate   *session.Gate
}

func newApp(cfg *config.Config) *app {
	tokens := auth.NewFileTokenStore(cfg.TokenFile)
	navigator := api.NavigatorFunc(func(string) {
		fmt.Fprintln(os.Stderr, "Session expired. Please login again.")
	})
	client := api.NewClient(cfg.BaseURL, tokens,
		api.WithNavigator(navigator),
		api.WithTimeout(cfg.RequestTimeout),
	)
	return &app{
		cfg:    cfg,
		tokens: tokens,
		client: client,
		gate:   session.NewGate(tokens, navigator),
	}
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "register":
		return a.register(args)
	case "login":
		return a.login(args)
	case "logout":
		return a.tokens.Clear()
	case "dashboard":
		return a.dashboard(args)
	case "watch":
		return a.watch(args)
	case "alert":
		return a.alert(args)
	case "lot":
		return a.lot(args)
	case "coins":
		return a.coins(args)
	case "markets":
		return a.markets(args)
	case "history":
		return a.ohlc(args, dashboard.ExpandHistory)
	case "chart":
		return a.ohlc(args, dashboard.ExpandChart)
	case "refresh":
		return a.refresh(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession is the CLI's protected-route check.
func (a *app) requireSession() error {
	if !a.gate.Admit() {
		return errors.New("not logged in (run: coinwatch login)")
	}
	return nil
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	fs.Parse(args)
	if *email == "" {
		return errors.New("-email is required")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	user, err := a.client.Register(context.Background(), *email, password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (id %d)\n", user.Email, user.ID)
	return nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email (required)")
	fs.Parse(args)
	if *email == "" {
		return errors.New("-email is required")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	resp, err := a.client.Login(context.Background(), *email, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Set(resp.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if claims, err := auth.DecodeToken(resp.AccessToken); err == nil {
		fmt.Printf("logged in, session valid until %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func (a *app) dashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	watch := fs.Bool("watch", false, "stay open and re-render periodically")
	every := fs.Duration("every", 30*time.Second, "re-render interval with -watch")
	fs.Parse(args)

	if err := a.requireSession(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := dashboard.NewController(a.client,
		dashboard.WithChartRange(a.cfg.ChartDays, a.cfg.ChartInterval),
		dashboard.WithHistoryRange(a.cfg.HistoryDays),
	)
	ctrl.LoadInitial(ctx)
	renderView(ctrl.View())

	if !*watch {
		return nil
	}

	// Session-lifetime machinery only runs in watch mode: the expiration
	// monitor evicts the session, signals stop the loop.
	expired := make(chan struct{})
	stopMonitor := auth.StartExpirationMonitor(a.tokens, func() {
		close(expired)
	}, a.cfg.MonitorInterval)
	defer stopMonitor()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	for {
		select {
		case <-sigCh:
			return nil
		case <-expired:
			a.tokens.Clear()
			fmt.Fprintln(os.Stderr, "Session expired. Please login again.")
			return api.ErrSessionExpired
		case <-ticker.C:
			ctrl.Refresh(ctx)
			renderView(ctrl.View())
			if msg, isErr, ok := ctrl.Status().Current(); ok && isErr {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
	}
}

func (a *app) watch(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: coinwatch watch add -coin <id> | rm -id <n>")
	}
	ctrl := dashboard.NewController(a.client)
	ctx := context.Background()

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("watch add", flag.ExitOnError)
		coin := fs.String("coin", "", "catalog id, e.g. bitcoin (required)")
		fs.Parse(args[1:])
		if err := ctrl.AddToWatchlist(ctx, *coin); err != nil {
			return err
		}
		fmt.Println("added")
		return nil
	case "rm":
		fs := flag.NewFlagSet("watch rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "watchlist entry id (required)")
		fs.Parse(args[1:])
		if err := ctrl.RemoveFromWatchlist(ctx, *id); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	default:
		return fmt.Errorf("unknown watch subcommand %q", args[0])
	}
}

func (a *app) alert(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: coinwatch alert add -symbol BTC -target 70000 | rm -id <n>")
	}
	ctrl := dashboard.NewController(a.client)
	ctx := context.Background()

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("alert add", flag.ExitOnError)
		symbol := fs.String("symbol", "", "coin symbol (required)")
		target := fs.Float64("target", 0, "target price (required)")
		fs.Parse(args[1:])
		if err := ctrl.CreateAlert(ctx, *symbol, *target); err != nil {
			return err
		}
		fmt.Println("alert created")
		return nil
	case "rm":
		fs := flag.NewFlagSet("alert rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "alert id (required)")
		fs.Parse(args[1:])
		if err := ctrl.RemoveAlert(ctx, *id); err != nil {
			return err
		}
		fmt.Println("alert removed")
		return nil
	default:
		return fmt.Errorf("unknown alert subcommand %q", args[0])
	}
}

func (a *app) lot(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: coinwatch lot add -symbol BTC -price 65000 -qty 0.1 | rm -id <n>")
	}
	ctrl := dashboard.NewController(a.client)
	ctx := context.Background()

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("lot add", flag.ExitOnError)
		symbol := fs.String("symbol", "", "coin symbol (required)")
		price := fs.Float64("price", 0, "price paid per unit (required)")
		qty := fs.Float64("qty", 0, "quantity acquired (required)")
		fs.Parse(args[1:])
		if err := ctrl.AddLot(ctx, *symbol, *price, *qty); err != nil {
			return err
		}
		fmt.Println("lot recorded")
		return nil
	case "rm":
		fs := flag.NewFlagSet("lot rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "lot id (required)")
		fs.Parse(args[1:])
		if err := ctrl.RemoveLot(ctx, *id); err != nil {
			return err
		}
		fmt.Println("lot removed")
		return nil
	default:
		return fmt.Errorf("unknown lot subcommand %q", args[0])
	}
}

func (a *app) coins(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	coins, err := a.client.ListAvailableCoins(context.Background())
	if err != nil {
		return err
	}
	for _, coin := range coins {
		fmt.Printf("%-12s %s\n", domain.NormalizeSymbol(coin.Symbol), coin.ID)
	}
	return nil
}

func (a *app) markets(args []string) error {
	fs := flag.NewFlagSet("markets", flag.ExitOnError)
	tab := fs.String("tab", "top100", "top100 | trending | movers")
	fs.Parse(args)

	if err := a.requireSession(); err != nil {
		return err
	}
	ctx := context.Background()
	ctrl := dashboard.NewController(a.client)

	switch *tab {
	case "top100":
		if err := ctrl.EnsureCoins(ctx); err != nil {
			return err
		}
		if err := ctrl.LoadMarketPrices(ctx); err != nil {
			return err
		}
		prices := ctrl.Cache().MarketPrices()
		for _, coin := range ctrl.Cache().Coins() {
			if price, ok := prices[coin.ID]; ok {
				fmt.Printf("%-12s $%s\n", domain.NormalizeSymbol(coin.Symbol), format.FormatPriceDisplay(price))
			}
		}
		return nil
	case "trending":
		trending, err := ctrl.Trending(ctx)
		if err != nil {
			return err
		}
		for _, coin := range trending {
			fmt.Printf("#%-3d %-12s %s\n", coin.MarketCapRank, domain.NormalizeSymbol(coin.Symbol), coin.Name)
		}
		return nil
	case "movers":
		movers, err := ctrl.TopGainersLosers(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Top gainers:")
		for _, coin := range movers.TopGainers {
			fmt.Printf("  %-12s $%-14s %+.2f%%\n", domain.NormalizeSymbol(coin.Symbol),
				format.FormatPrice(coin.CurrentPrice), coin.PriceChangePercentage24h)
		}
		fmt.Println("Top losers:")
		for _, coin := range movers.TopLosers {
			fmt.Printf("  %-12s $%-14s %+.2f%%\n", domain.NormalizeSymbol(coin.Symbol),
				format.FormatPrice(coin.CurrentPrice), coin.PriceChangePercentage24h)
		}
		return nil
	default:
		return fmt.Errorf("unknown tab %q", *tab)
	}
}

// ohlc drives the history/chart expansion path end to end: resolve the
// catalog id, toggle the panel, wait for the coordinator, read the cache.
func (a *app) ohlc(args []string, kind dashboard.ExpansionKind) error {
	fs := flag.NewFlagSet(string(kind), flag.ExitOnError)
	symbol := fs.String("symbol", "", "coin symbol (required)")
	fs.Parse(args)

	if err := a.requireSession(); err != nil {
		return err
	}
	if *symbol == "" {
		return errors.New("-symbol is required")
	}

	ctx := context.Background()
	ctrl := dashboard.NewController(a.client,
		dashboard.WithChartRange(a.cfg.ChartDays, a.cfg.ChartInterval),
		dashboard.WithHistoryRange(a.cfg.HistoryDays),
	)
	if err := ctrl.EnsureCoins(ctx); err != nil {
		return err
	}
	coinID := ""
	for _, coin := range ctrl.Cache().Coins() {
		if domain.SameSymbol(coin.Symbol, *symbol) {
			coinID = coin.ID
			break
		}
	}
	if coinID == "" {
		return fmt.Errorf("symbol %s not in the coin catalog", domain.NormalizeSymbol(*symbol))
	}

	if kind == dashboard.ExpandHistory {
		ctrl.ToggleHistory(*symbol, coinID)
	} else {
		ctrl.ToggleChart(*symbol, coinID)
	}
	ctrl.Coordinator().Wait()

	if msg, isErr, ok := ctrl.Status().Current(); ok && isErr {
		return errors.New(msg)
	}

	if kind == dashboard.ExpandHistory {
		items, _ := ctrl.Cache().History(*symbol)
		for _, item := range items {
			fmt.Printf("%s  o %-12s h %-12s l %-12s c %s\n", item.Date,
				format.FormatPrice(item.Open), format.FormatPrice(item.High),
				format.FormatPrice(item.Low), format.FormatPrice(item.Close))
		}
		return nil
	}
	candles, _ := ctrl.Cache().Candles(*symbol)
	for _, candle := range candles {
		fmt.Printf("%s  o %-12s h %-12s l %-12s c %s\n", candle.Date,
			format.FormatPrice(candle.Open), format.FormatPrice(candle.High),
			format.FormatPrice(candle.Low), format.FormatPrice(candle.Close))
	}
	return nil
}

func (a *app) refresh(args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	msg, err := a.client.TriggerRefresh(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func renderView(view dashboard.View) {
	if len(view.Rows) == 0 {
		fmt.Println("watchlist is empty")
		return
	}
	for _, row := range view.Rows {
		fmt.Printf("%-12s $%s", domain.NormalizeSymbol(row.Entry.Symbol),
			format.FormatPriceDisplay(row.CurrentPrice))
		if len(row.Alerts) > 0 {
			fmt.Printf("  (%d alert(s))", len(row.Alerts))
		}
		fmt.Println()
		for _, lot := range row.Lots {
			fmt.Printf("    lot %-4d qty %-10g in $%-12s now $%-12s %+.4f%%\n",
				lot.Lot.ID, lot.Lot.Quantity,
				format.FormatPrice(lot.Invested), format.FormatPrice(lot.CurrentValue),
				lot.GainLossPercent)
		}
	}
	if view.Portfolio.Invested > 0 {
		fmt.Printf("portfolio: in $%s now $%s %+.4f%%\n",
			format.FormatPriceDisplay(view.Portfolio.Invested),
			format.FormatPriceDisplay(view.Portfolio.CurrentValue),
			view.Portfolio.GainLossPercent)
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
