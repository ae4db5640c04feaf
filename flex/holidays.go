package flex

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// Holidays maps a date key to the holiday name.
type Holidays map[string]string

// Name returns the holiday name for day, if any.
func (h Holidays) Name(day generic.TimePoint) (string, bool) {
	name, ok := h[day.String()]
	return name, ok
}

// HolidayCache stores loaded holiday maps keyed by as-of date.
type HolidayCache interface {
	Get(asOf generic.TimePoint) (Holidays, bool)
	Set(asOf generic.TimePoint, holidays Holidays)
}

// TTLHolidayCache is a HolidayCache whose entries expire after a TTL.
// Safe for concurrent use.
type TTLHolidayCache struct {
	cache *ttlcache.Cache[string, Holidays]
}

func NewTTLHolidayCache(ttl time.Duration) *TTLHolidayCache {
	return &TTLHolidayCache{
		cache: ttlcache.New[string, Holidays](
			ttlcache.WithTTL[string, Holidays](ttl),
			ttlcache.WithDisableTouchOnHit[string, Holidays](),
		),
	}
}

func (c *TTLHolidayCache) Get(asOf generic.TimePoint) (Holidays, bool) {
	item := c.cache.Get(asOf.String())
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *TTLHolidayCache) Set(asOf generic.TimePoint, holidays Holidays) {
	c.cache.Set(asOf.String(), holidays, ttlcache.DefaultTTL)
}

// Len returns the number of live entries.
func (c *TTLHolidayCache) Len() int {
	return c.cache.Len()
}

// HolidayLookup loads holidays on or before an as-of date through a cache.
type HolidayLookup struct {
	Calendar generic.HolidayCalendar
	Cache    HolidayCache // nil disables caching
}

func NewHolidayLookup(calendar generic.HolidayCalendar, cache HolidayCache) *HolidayLookup {
	return &HolidayLookup{Calendar: calendar, Cache: cache}
}

// Until returns the holidays dated on or before asOf.
func (l *HolidayLookup) Until(ctx context.Context, asOf generic.TimePoint) (Holidays, error) {
	if l.Cache != nil {
		if cached, ok := l.Cache.Get(asOf); ok {
			return cached, nil
		}
	}

	list, err := l.Calendar.HolidaysUntil(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	holidays := make(Holidays, len(list))
	for _, h := range list {
		if h.Date.After(asOf) {
			continue
		}
		holidays[h.Date.String()] = h.Name
	}
	log.Debugf("Loaded %d holidays until %s", len(holidays), asOf)

	if l.Cache != nil {
		l.Cache.Set(asOf, holidays)
	}
	return holidays, nil
}
