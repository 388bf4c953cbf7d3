package pushover

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Priority is the urgency level of a notification, from lowest to emergency.
type Priority int

const (
	PriorityLowest    Priority = -2
	PriorityLow       Priority = -1
	PriorityNormal    Priority = 0
	PriorityHigh      Priority = 1
	PriorityEmergency Priority = 2
)

var priorityNames = map[Priority]string{
	PriorityLowest:    "lowest",
	PriorityLow:       "low",
	PriorityNormal:    "normal",
	PriorityHigh:      "high",
	PriorityEmergency: "emergency",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return strconv.Itoa(int(p))
}

func (p Priority) IsValid() bool {
	return p >= PriorityLowest && p <= PriorityEmergency
}

// ParsePriority accepts a priority name ("high") or its integer form ("1").
func ParsePriority(s string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == normalized {
			return p, nil
		}
	}

	n, err := strconv.Atoi(normalized)
	if err != nil || !Priority(n).IsValid() {
		return 0, fmt.Errorf("%w: invalid priority %q", ErrValidation, s)
	}
	return Priority(n), nil
}

// Options holds the optional notification fields. Zero values and nil
// pointers are left out of the request entirely.
type Options struct {
	Title     string
	URL       string
	URLTitle  string
	Timestamp *int64
	Priority  *Priority
	Sound     string
	HTML      bool
	TTL       *int
	// Retry and Expire only matter for PriorityEmergency.
	Retry  *int
	Expire *int
}

// Ptr returns a pointer to v, for filling the optional pointer fields.
func Ptr[T any](v T) *T {
	return &v
}

// Credentials identify the sending application and the recipient.
type Credentials struct {
	Token   string
	UserKey string
	Device  string
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.UserKey) == "" {
		return ErrMissingUserKey
	}
	return nil
}

func encodeForm(creds Credentials, message string, opts Options) url.Values {
	form := url.Values{}
	form.Set("token", creds.Token)
	form.Set("user", creds.UserKey)
	form.Set("message", message)

	setIfNotEmpty(form, "device", creds.Device)
	setIfNotEmpty(form, "title", opts.Title)
	setIfNotEmpty(form, "url", opts.URL)
	setIfNotEmpty(form, "url_title", opts.URLTitle)
	setIfNotEmpty(form, "sound", opts.Sound)

	if opts.Timestamp != nil {
		form.Set("timestamp", strconv.FormatInt(*opts.Timestamp, 10))
	}
	if opts.Priority != nil {
		form.Set("priority", strconv.Itoa(int(*opts.Priority)))
	}
	if opts.HTML {
		form.Set("html", "1")
	}
	setIfNotNil(form, "ttl", opts.TTL)
	setIfNotNil(form, "retry", opts.Retry)
	setIfNotNil(form, "expire", opts.Expire)

	return form
}

func setIfNotEmpty(form url.Values, key string, value string) {
	if value != "" {
		form.Set(key, value)
	}
}

func setIfNotNil(form url.Values, key string, value *int) {
	if value != nil {
		form.Set(key, strconv.Itoa(*value))
	}
}
