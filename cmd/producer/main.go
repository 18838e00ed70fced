package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sanspareilsmyn/txlens/internal/message"
)

var (
	kafkaBroker = flag.String("broker", "localhost:9092", "Kafka broker address")
	topic       = flag.String("topic", "transactions", "Kafka topic to write to")
	interval    = flag.Duration("interval", 100*time.Millisecond, "Delay between messages")
)

func main() {
	flag.Parse()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(*kafkaBroker),
		Topic:    *topic,
		Balancer: &kafka.Hash{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Starting sample producer for topic: %s on broker: %s", *topic, *kafkaBroker)

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ticker.C:
			key, value, err := sampleMessage(rng, time.Now())
			if err != nil {
				log.Printf("Error encoding message: %v", err)
				continue
			}

			err = writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
			if err != nil {
				if ctx.Err() != nil {
					log.Println("Context cancelled, exiting message loop.")
					return
				}
				log.Printf("Error writing message: %v", err)
			} else {
				log.Printf("Produced message: %s", string(value))
			}

		case <-ctx.Done():
			log.Println("Producer loop stopped.")
			return
		}
	}
}

// sampleMessage builds a random transaction. A few are deliberately late,
// out of order or malformed so the consumer's rejection paths get traffic.
func sampleMessage(rng *rand.Rand, now time.Time) ([]byte, []byte, error) {
	id := uuid.New()
	key := []byte(id.String())

	roll := rng.Float64()
	if roll < 0.01 {
		return key, []byte(`{"id":"` + id.String() + `","amount":"oops"}`), nil
	}

	ts := now
	switch {
	case roll < 0.03:
		// older than the window
		ts = now.Add(-time.Duration(61+rng.Intn(60)) * time.Second)
	case roll < 0.10:
		ts = now.Add(-time.Duration(rng.Intn(5000)) * time.Millisecond)
	}

	// Mostly purchases around 50, some refunds.
	amount := 50.0 + rng.NormFloat64()*20.0
	if rng.Float64() < 0.05 {
		amount = -amount
	}

	value, err := message.EncodeTransaction(message.Transaction{
		ID:        id.String(),
		Amount:    &amount,
		Timestamp: message.NewTimestamp(ts),
	})
	return key, value, err
}
