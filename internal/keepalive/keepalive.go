package keepalive

import (
	"log"
	"net/http"
	"sync"
	"time"
)

// Service pings a URL on an interval so free-tier hosts do not idle the
// instance out. It has no effect on protocol correctness.
type Service struct {
	url      string
	interval time.Duration
	client   *http.Client
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(url string, interval time.Duration) *Service {
	return &Service{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		stop:     make(chan struct{}),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	log.Printf("Keepalive started (url: %s, interval: %v)", s.url, s.interval)
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.ping()
		}
	}
}

func (s *Service) ping() {
	resp, err := s.client.Get(s.url)
	if err != nil {
		log.Printf("Keepalive ping failed: %v", err)
		return
	}
	resp.Body.Close()
	log.Printf("Keepalive ping: status %d", resp.StatusCode)
}
