// Command authcore-loadtest measures session store throughput and latency
// against a real Redis or an embedded miniredis.
//
// It seeds N sessions, then runs two timed phases over random sessions:
// reads (Get) and activity updates (RecordActivity). Latency percentiles
// are reported per phase.
//
//	go run ./cmd/authcore-loadtest -sessions 100000 -concurrency 256 -ops 200000
//	REDIS_ADDR=localhost:6379 go run ./cmd/authcore-loadtest
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carelink/authcore/rbac"
	"github.com/carelink/authcore/session"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 100000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (get + activity)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "authcore", "session key prefix")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store := session.NewStore(client, session.Config{Prefix: *prefix})

	// One user per session so the concurrency cap never evicts a seeded
	// session mid-run.
	ids := make([]string, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	seedErr := runWorkers(*concurrency, *sessions, func(i int) error {
		sess, err := store.Create(ctx, session.NewSession{
			UserID: fmt.Sprintf("user-%d", i),
			Role:   rbac.RolePatient,
			Metadata: session.Metadata{
				IPAddress: "10.0.0.1",
				UserAgent: "loadtest/1.0",
			},
		})
		if err != nil {
			return err
		}
		ids[i] = sess.ID
		return nil
	})
	if seedErr != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", seedErr)
		os.Exit(1)
	}
	seedDur := time.Since(startSeed)
	fmt.Printf("seeded in %s (%.0f sessions/sec)\n\n", seedDur.Round(time.Millisecond),
		float64(*sessions)/seedDur.Seconds())

	phase("get", *concurrency, *ops, func(rng *rand.Rand) error {
		_, err := store.Get(ctx, ids[rng.Intn(len(ids))])
		return err
	})

	phase("activity", *concurrency, *ops, func(rng *rand.Rand) error {
		_, err := store.RecordActivity(ctx, ids[rng.Intn(len(ids))], session.Activity{
			IPAddress: "10.0.0.1",
			UserAgent: "loadtest/1.0",
		})
		return err
	})
}

func phase(name string, concurrency, ops int, op func(*rand.Rand) error) {
	fmt.Printf("phase %q: %d ops across %d workers\n", name, ops, concurrency)

	latencies := make([]time.Duration, ops)
	var failures atomic.Int64
	var next atomic.Int64

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				i := int(next.Add(1)) - 1
				if i >= ops {
					return
				}
				opStart := time.Now()
				if err := op(rng); err != nil {
					failures.Add(1)
				}
				latencies[i] = time.Since(opStart)
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pct := func(p float64) time.Duration {
		idx := int(p * float64(len(latencies)-1))
		return latencies[idx]
	}

	fmt.Printf("  throughput: %.0f ops/sec\n", float64(ops)/elapsed.Seconds())
	fmt.Printf("  p50=%s p95=%s p99=%s max=%s failures=%d\n\n",
		pct(0.50).Round(time.Microsecond),
		pct(0.95).Round(time.Microsecond),
		pct(0.99).Round(time.Microsecond),
		latencies[len(latencies)-1].Round(time.Microsecond),
		failures.Load())
}

func runWorkers(concurrency, n int, fn func(int) error) error {
	var wg sync.WaitGroup
	var next atomic.Int64

	var mu sync.Mutex
	var firstErr error

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				if err := fn(i); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return firstErr
}
