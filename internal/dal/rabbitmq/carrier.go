package rabbitmq

import "github.com/streadway/amqp"

// HeaderCarrier carries trace context in AMQP message headers.
type HeaderCarrier amqp.Table

func (c HeaderCarrier) Get(key string) string {
	v, ok := c[key].(string)
	if !ok {
		return ""
	}

	return v
}

func (c HeaderCarrier) Set(key, value string) {
	c[key] = value
}

func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	return keys
}
