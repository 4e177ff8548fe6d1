package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	BaseURL     string
	ShopDomain  string
	AccessToken string
	Total       int
	Rate        int
	Concurrency int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.BaseURL, "base-url", "", "Target base URL (required)")
	flag.StringVar(&c.ShopDomain, "shop", "demo.myshopify.com", "Shop domain header value")
	flag.StringVar(&c.AccessToken, "token", "shpat_dummy", "Access token header value")
	flag.IntVar(&c.Total, "total", 1000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 50, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.Parse()

	if c.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -base-url is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 5
		if c.Concurrency < 10 {
			c.Concurrency = 10
		}
	}

	return c
}

type Stats struct {
	ok      uint64
	errors  uint64
	latency int64 // microseconds
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)
			latTotal := atomic.LoadInt64(&s.latency)

			curOK := ok - lastOK
			curErr := errs - lastErr
			lastOK, lastErr = ok, errs

			avgLat := 0.0
			if ok > 0 {
				avgLat = float64(latTotal) / float64(ok) / 1000.0
			}

			log.Printf("[STATS] 1s -> OK: %d | ERR: %d | AvgLat: %.2fms | Total OK: %d", curOK, curErr, avgLat, ok)
		}
	}
}

var metricPaths = []string{
	"/metrics/reviewers",
	"/metrics/returning-customers",
	"/metrics/order-behavior",
	"/metrics/discount-users",
}

var rangeTokens = []string{"today", "yesterday", "7days", "30days", "90days", "thisMonth", "lastMonth"}

func main() {
	cfg := parseFlags()
	stats := &Stats{}

	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Starting Load Test: Target=%s Rate=%d/s Total=%d Workers=%d", cfg.BaseURL, cfg.Rate, cfg.Total, cfg.Concurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go stats.StartLogger(ctx)

	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rngs := make([]*rand.Rand, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		rngs[i] = rand.New(rand.NewSource(rng.Int63()))
	}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go startWorker(client, cfg, jobs, stats, rngs[i], &wg)
	}

	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := cfg.Rate
		if remaining < batch {
			batch = remaining
		}

		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		elapsed := time.Since(start)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Total OK: %d | Total Errors: %d", atomic.LoadUint64(&stats.ok), atomic.LoadUint64(&stats.errors))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, rng *rand.Rand, wg *sync.WaitGroup) {
	defer wg.Done()

	for range jobs {
		path := metricPaths[rng.Intn(len(metricPaths))]
		token := rangeTokens[rng.Intn(len(rangeTokens))]
		url := fmt.Sprintf("%s%s?range=%s", cfg.BaseURL, path, token)

		start := time.Now()
		if err := fetchMetric(client, cfg, url); err != nil {
			stats.AddError()
		} else {
			stats.AddOK(time.Since(start))
		}
	}
}

func fetchMetric(client *http.Client, cfg *Config, url string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shop-Domain", cfg.ShopDomain)
	req.Header.Set("X-Shopify-Access-Token", cfg.AccessToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
