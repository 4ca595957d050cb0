package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnexpectedReply is returned when the reservation script answers with
// something other than a {granted, available} pair.
var ErrUnexpectedReply = errors.New("quota: unexpected reservation reply")

// reserveScript drops expired holds, sums the live ones and, if the request
// still fits, records a new hold. Members are "<token>:<count>", scored by
// their expiry in unix milliseconds.
//
// KEYS[1] hold set
// ARGV: now_ms, used, count, limit, expires_ms, token, hold_ms
var reserveScript = redis.NewScript(`
local used = tonumber(ARGV[2])
local count = tonumber(ARGV[3])
local limit = tonumber(ARGV[4])
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
local held = 0
for _, member in ipairs(redis.call("ZRANGE", KEYS[1], 0, -1)) do
	held = held + tonumber(string.match(member, ":(%d+)$"))
end
local available = limit - used - held
if available < count then
	return {0, available}
end
redis.call("ZADD", KEYS[1], ARGV[5], ARGV[6] .. ":" .. ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[7])
return {1, available}
`)

// RedisClient is the subset of go-redis used by the ledger.
type RedisClient interface {
	redis.Scripter
}

// Reservation is the outcome of a Reserve call. Available is the capacity
// that was free before this request.
type Reservation struct {
	Granted   bool
	Available int
}

// RedisReservations holds granted video capacity in Redis until the created
// videos show up in the completed-video count. The check and the hold are a
// single script call, so concurrent requests cannot both take the last slot.
type RedisReservations struct {
	client RedisClient
	prefix string
	hold   time.Duration
	now    func() time.Time
}

type Option func(*RedisReservations)

// WithHold sets how long a granted request keeps its capacity.
func WithHold(d time.Duration) Option {
	return func(r *RedisReservations) {
		if d > 0 {
			r.hold = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *RedisReservations) { r.now = now }
}

func NewRedisReservations(client RedisClient, prefix string, opts ...Option) *RedisReservations {
	r := &RedisReservations{
		client: client,
		prefix: prefix,
		hold:   10 * time.Minute,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reserve grants count units against limit when used plus the live holds
// leave enough room, and holds them for the configured duration.
func (r *RedisReservations) Reserve(ctx context.Context, key string, used, count, limit int) (Reservation, error) {
	now := r.now()
	args := []interface{}{
		strconv.FormatInt(now.UnixMilli(), 10),
		used,
		count,
		limit,
		strconv.FormatInt(now.Add(r.hold).UnixMilli(), 10),
		uuid.NewString(),
		r.hold.Milliseconds(),
	}

	reply, err := reserveScript.Run(ctx, r.client, []string{r.prefix + key}, args...).Int64Slice()
	if err != nil {
		return Reservation{}, fmt.Errorf("reserve %q: %w", key, err)
	}
	if len(reply) != 2 {
		return Reservation{}, ErrUnexpectedReply
	}
	return Reservation{Granted: reply[0] == 1, Available: int(reply[1])}, nil
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
