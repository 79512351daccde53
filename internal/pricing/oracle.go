package pricing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

// Oracle returns the current USD price for a currency.
type Oracle interface {
	Price(currency models.Currency) (float64, error)
}

var coinIDs = map[models.Currency]string{
	models.BTC: "bitcoin",
	models.ETH: "ethereum",
}

type cachedPrice struct {
	price       float64
	lastUpdated time.Time
}

// CoinGeckoOracle fetches USD prices from the CoinGecko simple-price API.
// Prices are cached; on fetch failure the last known price is served so a
// flaky upstream never stalls bet or cashout processing.
type CoinGeckoOracle struct {
	baseURL string
	ttl     time.Duration
	client  *http.Client

	mu    sync.Mutex
	cache map[models.Currency]cachedPrice
}

func NewCoinGeckoOracle(baseURL string, ttl, timeout time.Duration) *CoinGeckoOracle {
	return &CoinGeckoOracle{
		baseURL: baseURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: timeout},
		cache:   make(map[models.Currency]cachedPrice),
	}
}

func (o *CoinGeckoOracle) Price(currency models.Currency) (float64, error) {
	coinID, ok := coinIDs[currency]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", currency)
	}

	o.mu.Lock()
	cached, hasCache := o.cache[currency]
	o.mu.Unlock()

	if hasCache && time.Since(cached.lastUpdated) < o.ttl {
		return cached.price, nil
	}

	price, err := o.fetch(coinID)
	if err != nil {
		if hasCache && cached.price > 0 {
			log.Warnf("price fetch for %s failed, using last known price: %v", currency, err)
			return cached.price, nil
		}
		return 0, fmt.Errorf("failed to fetch %s price: %w", currency, err)
	}

	o.mu.Lock()
	o.cache[currency] = cachedPrice{price: price, lastUpdated: time.Now()}
	o.mu.Unlock()

	return price, nil
}

func (o *CoinGeckoOracle) fetch(coinID string) (float64, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")

	resp, err := o.client.Get(o.baseURL + "?" + q.Encode())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body map[string]struct {
		Usd float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	entry, ok := body[coinID]
	if !ok || entry.Usd <= 0 {
		return 0, fmt.Errorf("no usd price for %s in response", coinID)
	}
	return entry.Usd, nil
}
