// Command nanoex runs the in-process exchange simulator: a synthetic
// order feed drives a momentum strategy and a risk-filtered matching
// engine, reporting trades and throughput on stdout until a line (or EOF)
// arrives on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"nanoex-go/book"
	"nanoex-go/config"
	"nanoex-go/engine"
	"nanoex-go/feed"
	"nanoex-go/logging"
	"nanoex-go/metrics"
	"nanoex-go/pipeline"
	"nanoex-go/risk"
	"nanoex-go/strategy"
)

const statusInterval = 5 * time.Second

func main() {
	cfgPath := flag.String("config", "", "path to a YAML configuration document (defaults built in if empty)")
	rateMs := flag.Int("rate", 0, "override feed cadence in milliseconds (0 keeps the config value)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "feed RNG seed, for reproducible runs")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus /metrics listen address (empty disables the endpoint)")
	logLevel := flag.String("logLevel", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	appCfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		appCfg = loaded
	}
	if *logLevel != "" {
		appCfg.LogLevel = *logLevel
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = appCfg.LogLevel
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Close()

	feedCfg := appCfg.Feed.ToFeedConfig()
	if *rateMs > 0 {
		feedCfg.Interval = time.Duration(*rateMs) * time.Millisecond
	}

	strategyCfg, err := appCfg.Strategy.ToStrategyConfig()
	if err != nil {
		log.Fatalf("resolve strategy config: %v", err)
	}
	limits := appCfg.Risk.ToLimits()

	eng := engine.New()
	reg := metrics.New(metrics.DefaultConfig())
	metricsSrv := pipeline.NewMetrics()

	workers := runtime.GOMAXPROCS(0)
	lanes := make([]*pipeline.Lane, workers)
	for i := range lanes {
		strat, err := strategy.NewEngine(strategyCfg)
		if err != nil {
			log.Fatalf("build strategy lane %d: %v", i, err)
		}
		filter, err := risk.NewFilter(limits)
		if err != nil {
			log.Fatalf("build risk lane %d: %v", i, err)
		}
		lanes[i] = &pipeline.Lane{Strategy: strat, Risk: filter}
	}

	dispatcher := pipeline.NewDispatcher(eng, metricsSrv, lanes, workers)
	dispatcher.UseRegistry(reg)
	dispatcher.OnSignal(func(lane int, order *book.Order, sig strategy.Signal) {
		printSignalLine(sig)
		logger.LogSignal(lane, sig.Kind.String(), sig.Reason, sig.Confidence)
	})
	dispatcher.OnAdmitted(func(lane int, order *book.Order) {
		printOrderLine(order)
	})
	dispatcher.OnTrade(func(trades []engine.Trade) {
		reg.RecordTrades(len(trades))
		for _, tr := range trades {
			logger.LogTrade(tr.BuyOrderID, tr.SellOrderID, tr.Price, tr.Quantity)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *metricsAddr != "" {
		go func() {
			if err := reg.Serve(ctx, *metricsAddr); err != nil {
				logger.LogError(err, map[string]interface{}{"component": "metrics"})
			}
		}()
	}

	printBanner(workers, feedCfg, strategyCfg)

	dispatcher.Start()
	src := feed.New(feedCfg, *seed)
	feedStop := make(chan struct{})
	feedDone := make(chan struct{})
	batches := make(chan []*book.Order, workers*4)
	go func() {
		src.Run(batches, feedStop)
		close(batches)
		close(feedDone)
	}()
	go func() {
		for batch := range batches {
			dispatcher.Submit(batch)
		}
	}()

	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()
	started := time.Now()

	stdinEOF := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		// stdin is not otherwise interpreted; the first line of input (or
		// EOF) just ends the run.
		scanner.Scan()
		close(stdinEOF)
	}()

	for {
		select {
		case <-statusTicker.C:
			printStatus(eng, metricsSrv, started)
			bid, ask := eng.BestBidAsk()
			reg.SetBookState(float64(bid), float64(ask), float64(eng.Spread()))
			reg.SetEventsPerSecond(metricsSrv.EventsPerSecond())
		case <-stdinEOF:
			shutdown(feedStop, feedDone, dispatcher, metricsSrv, eng, started)
			return
		}
	}
}

func shutdown(feedStop, feedDone chan struct{}, dispatcher *pipeline.Dispatcher, metricsSrv *pipeline.Metrics, eng *engine.Engine, started time.Time) {
	close(feedStop)
	<-feedDone // producer has stopped sending and closed batches
	dispatcher.Stop()
	metricsSrv.Stop()

	printStatus(eng, metricsSrv, started)
	fmt.Println("Final Results:")
	fmt.Printf("  Orders processed: %d\n", eng.ProcessedOrders())
	fmt.Printf("  Trades matched:   %d\n", eng.MatchedTrades())
	fmt.Printf("  Orders rejected:  %d\n", dispatcher.Rejections())
	fmt.Println("  Recent Trades (last 10):")
	for _, tr := range eng.RecentTrades(10) {
		fmt.Printf("    buy=%d sell=%d price=%.2f qty=%d\n", tr.BuyOrderID, tr.SellOrderID, float64(tr.Price)/100, tr.Quantity)
	}
	os.Exit(0)
}

func printBanner(workers int, feedCfg feed.Config, stratCfg strategy.Config) {
	fmt.Println("nanoex matching engine simulator")
	fmt.Printf("workers=%d feed_interval=%s feed_batch=%d momentum_threshold=%.2f position_size=%d\n",
		workers, feedCfg.Interval, feedCfg.BatchSize, stratCfg.MomentumThreshold, stratCfg.PositionSize)
}

func printStatus(eng *engine.Engine, m *pipeline.Metrics, started time.Time) {
	bid, ask := eng.BestBidAsk()
	fmt.Printf("Status %.0fs | orders=%d trades=%d events/s=%.2f avg_ns=%.2f bid=%.2f ask=%.2f\n",
		time.Since(started).Seconds(),
		eng.ProcessedOrders(), eng.MatchedTrades(),
		m.EventsPerSecond(), eng.AverageLatencyNs(),
		float64(bid)/100, float64(ask)/100)
}

func printOrderLine(order *book.Order) {
	fmt.Printf("Order: %s @ %.2f x %d\n", order.Side, float64(order.Price)/100, order.Quantity)
}

func printSignalLine(sig strategy.Signal) {
	switch sig.Kind {
	case strategy.BuySignal:
		fmt.Printf("BUY Signal: %s (Confidence: %.0f%%)\n", sig.Reason, sig.Confidence*100)
	case strategy.SellSignal:
		fmt.Printf("SELL Signal: %s (Confidence: %.0f%%, P&L: %.2f%%)\n", sig.Reason, sig.Confidence*100, sig.RealisedPnL)
	}
}
