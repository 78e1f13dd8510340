package auditlog

import (
	"context"
	"encoding/json"
	"log"

	"github.com/prateeks07/society-management-backend/utils"
)

// StartKafkaConsumer drains the audit-events topic into audit_logs. No-op
// when kafka is not configured.
func StartKafkaConsumer(svc Service) {
	if !utils.IsKafkaEnabled() {
		return
	}

	concrete, ok := svc.(*service)
	if !ok {
		log.Println("⚠️ Audit consumer needs the default service implementation")
		return
	}

	go func() {
		reader := utils.NewAuditReader()
		defer reader.Close()

		log.Println("✅ Audit log consumer started")
		for {
			msg, err := reader.ReadMessage(context.Background())
			if err != nil {
				log.Printf("⚠️ Audit consumer stopped: %v", err)
				return
			}

			var entry Entry
			if err := json.Unmarshal(msg.Value, &entry); err != nil {
				log.Printf("⚠️ Skipping malformed audit event: %v", err)
				continue
			}

			if err := concrete.persist(context.Background(), entry); err != nil {
				log.Printf("⚠️ Failed to persist audit event: %v", err)
			}
		}
	}()
}
