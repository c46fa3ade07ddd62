// Package rabbitmq содержит подключение к RabbitMQ, объявление очередей
// и функции публикации/потребления сообщений уведомлений.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect устанавливает соединение с RabbitMQ, повторяя попытки с паузой
// между ними. Возвращает последнюю ошибку, если все попытки исчерпаны.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		conn, err := amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: after %d attempts: %w", op, retries, lastErr)
}
