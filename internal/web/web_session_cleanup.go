package web

import (
	"log"
	"time"
)

// sessionCleanupInterval controls how often expired sessions are swept
const sessionCleanupInterval = 1 * time.Hour

// sessionCleanupLoop periodically removes expired session rows until the
// database signals shutdown
func (s *WebServer) sessionCleanupLoop() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.DB.CleanupExpiredSessions()
			if err != nil {
				log.Printf("[WARN] Failed to cleanup expired sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Cleaned up %d expired sessions", n)
			}
		case <-s.DB.StopChan:
			return
		}
	}
}
