// Compares supporter-list caching strategies against a real PostgreSQL +
// Redis pair: no cache, naive per-page cache, and an id-index cache with
// shared user snapshots. Run with DATABASE_URL and REDIS_ADDR set.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ideosphere/ideosphere/internal/cacheperf"
	"github.com/ideosphere/ideosphere/internal/model"
)

type request struct {
	page int
	size int
}

func main() {
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=postgres port=5432 sslmode=disable"
	}
	db := must(gorm.Open(postgres.Open(dsn), &gorm.Config{}))

	mustDo(db.Exec("DROP TABLE IF EXISTS feedback CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS ideas CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS users CASCADE").Error)
	mustDo(db.AutoMigrate(&model.User{}, &model.Idea{}, &model.Feedback{}))

	const (
		supporterCount = 20000
		ttlMinutes     = 10
		dbDelay        = 0 * time.Millisecond
	)

	fmt.Println("Setting up test data...")

	// Three popular ideas with overlapping supporter sets, which is where
	// the shared snapshot cache pays off.
	ideaRows := []model.Idea{
		{ID: "idea-a", Title: "idea-a", Status: model.StatusPublished},
		{ID: "idea-b", Title: "idea-b", Status: model.StatusPublished},
		{ID: "idea-c", Title: "idea-c", Status: model.StatusPublished},
	}
	mustDo(db.Create(&ideaRows).Error)

	supporters := make([]model.User, supporterCount)
	for i := 0; i < supporterCount; i++ {
		supporters[i] = model.User{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("user_%d", i),
			Email:    fmt.Sprintf("user_%d@example.com", i),
			Location: fmt.Sprintf("Lyon %de", 1+i%9),
		}
	}

	base := time.Now()
	makeFeedback := func(ideaID string, offset int) []model.Feedback {
		rows := make([]model.Feedback, supporterCount/2)
		for i := range rows {
			rows[i] = model.Feedback{
				ID:        uuid.NewString(),
				UserID:    supporters[(i+offset)%supporterCount].ID,
				Kind:      model.KindIdea,
				ContentID: ideaID,
				Type:      model.FeedbackSupports,
				CreatedAt: base.Add(-time.Duration(i) * time.Second),
			}
		}
		return rows
	}
	// idea-a: supporters 0-9999; idea-b: 5000-14999; idea-c: 7500-17499
	fbA := makeFeedback("idea-a", 0)
	fbB := makeFeedback("idea-b", supporterCount/4)
	fbC := makeFeedback("idea-c", supporterCount*3/8)

	mustDo(db.CreateInBatches(&supporters, 1000).Error)
	mustDo(db.CreateInBatches(&fbA, 1000).Error)
	mustDo(db.CreateInBatches(&fbB, 1000).Error)
	mustDo(db.CreateInBatches(&fbC, 1000).Error)
	fmt.Println("Test data ready: 3 ideas with overlapping supporters")

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	svc := cacheperf.NewSupporterService(db, client, ttlMinutes*time.Minute, dbDelay)

	allReqs := make([]struct {
		ideaID string
		req    request
	}, 0, 9000)
	for _, ideaID := range []string{"idea-a", "idea-b", "idea-c"} {
		for _, r := range makeRequests(3000) {
			allReqs = append(allReqs, struct {
				ideaID string
				req    request
			}{ideaID, r})
		}
	}

	noCache := runScenario(ctx, svc, allReqs, false, func(ctx context.Context, ideaID string, r request) ([]cacheperf.SupporterSnapshot, error) {
		return svc.FetchSupportersNoCache(ctx, ideaID, r.page, r.size)
	}, client)

	naive := runScenario(ctx, svc, allReqs, true, func(ctx context.Context, ideaID string, r request) ([]cacheperf.SupporterSnapshot, error) {
		return svc.FetchSupportersNaiveCache(ctx, ideaID, r.page, r.size)
	}, client)

	optimized := runScenario(ctx, svc, allReqs, true, func(ctx context.Context, ideaID string, r request) ([]cacheperf.SupporterSnapshot, error) {
		return svc.FetchSupportersOptimized(ctx, ideaID, r.page, r.size)
	}, client)

	fmt.Println("\nSupporter list latency (9k req across 3 ideas, 20k users, PostgreSQL + Redis)")
	for _, row := range []struct {
		name string
		res  scenarioResult
	}{
		{"No cache", noCache},
		{"Naive page cache", naive},
		{"Optimized cache", optimized},
	} {
		fmt.Printf("%-18s avg=%v p95=%v p99=%v db_page=%d db_index=%d db_user_bulk=%d cache_keys=%d mem=%s\n",
			row.name, avg(row.res.durations), pct(row.res.durations, 0.95), pct(row.res.durations, 0.99),
			row.res.counters.PageQueries, row.res.counters.IndexLoads, row.res.counters.UserBulkLoad,
			row.res.cacheKeys, formatBytes(row.res.memoryBytes),
		)
	}
}

type scenarioResult struct {
	durations   []time.Duration
	counters    cacheperf.SupporterDBCounters
	cacheKeys   int
	memoryBytes int64
}

func runScenario(ctx context.Context, svc *cacheperf.SupporterService, reqs []struct {
	ideaID string
	req    request
}, warm bool, call func(context.Context, string, request) ([]cacheperf.SupporterSnapshot, error), client *redis.Client) scenarioResult {
	client.FlushAll(ctx)
	svc.ResetCounters()

	if warm {
		fmt.Print("  Warming cache...")
		for _, r := range reqs {
			if _, err := call(ctx, r.ideaID, r.req); err != nil {
				panic(err)
			}
		}
		fmt.Println(" done")
	}

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		if _, err := call(ctx, r.ideaID, r.req); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "*").Result()

	info, err := client.Info(ctx, "memory").Result()
	var memBytes int64
	if err == nil {
		memBytes = parseRedisMemory(info)
	}

	return scenarioResult{
		durations:   out,
		counters:    svc.Counters(),
		cacheKeys:   len(keys),
		memoryBytes: memBytes,
	}
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	lines := []rune(info)
	var result int64
	for i := 0; i < len(lines); {
		if i+12 < len(lines) && string(lines[i:i+12]) == "used_memory:" {
			i += 12
			var num int64
			for i < len(lines) && lines[i] >= '0' && lines[i] <= '9' {
				num = num*10 + int64(lines[i]-'0')
				i++
			}
			result = num
			break
		}
		i++
	}
	return result
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func makeRequests(n int) []request {
	sizes := []int{20, 40, 60}
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		size := sizes[rnd.Intn(len(sizes))]
		page := 1
		if rnd.Float64() > 0.72 {
			// deep pagination or a different panel size
			page = 2 + rnd.Intn(120)
		}
		out[i] = request{page: page, size: size}
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
