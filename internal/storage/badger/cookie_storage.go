package badger

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const cookieKeyPrefix = "cookie:"

// cookieRecord is the JSON-encoded jar for one domain.
type cookieRecord struct {
	Domain  string         `json:"domain"`
	Cookies []storedCookie `json:"cookies"`
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HTTPOnly bool      `json:"http_only"`
}

// CookieStorage implements interfaces.CookieStore, persisting one jar per
// domain (spec.md §6 "cookie: getCookie/setCookie").
type CookieStorage struct {
	db *DB
}

func NewCookieStorage(db *DB) *CookieStorage {
	return &CookieStorage{db: db}
}

func (s *CookieStorage) Get(rawURL string) []*http.Cookie {
	domain := domainOf(rawURL)
	var record cookieRecord
	err := s.db.Badger().View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cookieKeyPrefix + domain))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil
	}
	cookies := make([]*http.Cookie, 0, len(record.Cookies))
	for _, c := range record.Cookies {
		cookies = append(cookies, &http.Cookie{
			Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path,
			Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HTTPOnly,
		})
	}
	return cookies
}

func (s *CookieStorage) Set(rawURL string, cookies []*http.Cookie) error {
	domain := domainOf(rawURL)
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path,
			Expires: c.Expires, Secure: c.Secure, HTTPOnly: c.HttpOnly,
		})
	}
	record := cookieRecord{Domain: domain, Cookies: stored}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode cookies for %q: %w", domain, err)
	}
	err = s.db.Badger().Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cookieKeyPrefix+domain), data)
	})
	if err != nil {
		return fmt.Errorf("set cookies for %q: %w", domain, err)
	}
	return nil
}

// Raw returns the value of one named cookie for rawURL, or "" when absent
// (the form the getCookie native API returns to scripts).
func (s *CookieStorage) Raw(rawURL, key string) string {
	for _, c := range s.Get(rawURL) {
		if c.Name == key {
			return c.Value
		}
	}
	return ""
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
