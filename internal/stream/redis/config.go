package redis

const (
	DefaultRequestStream = "eval-requests"
	DefaultResultStream  = "eval-results"
	DefaultGroup         = "eval-group"
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, resultStream string, group string, consumerName string) *RedisStreamConfig {
	if stream == "" {
		stream = DefaultRequestStream
	}
	if resultStream == "" {
		resultStream = DefaultResultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	if consumerName == "" {
		consumerName = "eval-consumer"
	}
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  resultStream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}
