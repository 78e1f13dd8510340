package utils

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

var (
	auditWriter *kafka.Writer
	auditTopic  string
	kafkaOn     bool
)

// InitializeKafka sets up the audit-event writer. Kafka is optional: when no
// brokers are configured the publish helpers become no-ops and audit entries
// are written straight to the database instead.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, audit events will be written directly to DB")
		return
	}

	auditTopic = os.Getenv("KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "audit-events"
	}

	auditWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        auditTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	kafkaOn = true
	log.Printf("✅ Kafka audit writer ready (topic: %s)", auditTopic)
}

// IsKafkaEnabled reports whether the audit stream is configured.
func IsKafkaEnabled() bool {
	return kafkaOn
}

// PublishAuditEvent pushes a serialized audit event onto the stream.
// Best-effort: failures are logged, not propagated, so a broker outage never
// blocks the request path.
func PublishAuditEvent(payload []byte) {
	if !kafkaOn || auditWriter == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := auditWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(uuid.NewString()),
		Value: payload,
	})
	if err != nil {
		log.Printf("⚠️ Failed to publish audit event: %v", err)
	}
}

// NewAuditReader builds a consumer for the audit topic. Callers own Close.
func NewAuditReader() *kafka.Reader {
	brokers := os.Getenv("KAFKA_BROKERS")
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   auditTopic,
		GroupID: "audit-log-writer",
	})
}
