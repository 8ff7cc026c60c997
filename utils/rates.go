package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// RateCache хранит курсы валют с ограниченным сроком жизни.
// Кэш создаётся явно и передаётся туда, где нужен, без глобального состояния.
type RateCache struct {
	mu        sync.RWMutex
	rates     map[string]float64
	lastFetch time.Time
	ttl       time.Duration
	apiURL    string
	client    *http.Client
}

func NewRateCache(apiURL string, ttl time.Duration) *RateCache {
	return &RateCache{
		rates:  make(map[string]float64),
		ttl:    ttl,
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (rc *RateCache) Rate(currencyCode string) (float64, error) {
	rc.mu.RLock()
	rate, ok := rc.rates[currencyCode]
	fresh := time.Since(rc.lastFetch) < rc.ttl
	rc.mu.RUnlock()

	if ok && fresh {
		return rate, nil
	}

	if err := rc.refresh(); err != nil {
		log.Printf("Ошибка обновления курсов валют: %v", err)
		// При недоступном API пользуемся устаревшим кэшем
		if ok {
			return rate, nil
		}
		return 0, err
	}

	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if rate, ok := rc.rates[currencyCode]; ok {
		return rate, nil
	}
	return 0, errors.New("валюта не найдена")
}

func (rc *RateCache) refresh() error {
	url := rc.apiURL + "USD" // Базовая валюта — USD

	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := rc.client.Get(url)
		if err != nil {
			lastErr = err
			time.Sleep(time.Second)
			continue
		}

		var payload struct {
			Result          string             `json:"result"`
			ConversionRates map[string]float64 `json:"conversion_rates"`
		}
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if payload.Result != "success" {
			lastErr = fmt.Errorf("неожиданный ответ API: %s", payload.Result)
			continue
		}

		rc.mu.Lock()
		rc.rates = payload.ConversionRates
		rc.lastFetch = time.Now()
		rc.mu.Unlock()
		return nil
	}
	return lastErr
}
