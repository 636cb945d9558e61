package destination

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Paintersrp/periodsearch/internal/period"
)

const (
	callbackScheme = "periodsearch"
	callbackHost   = "period"
)

var callbackPattern = regexp.MustCompile(`periodsearch://period\?[^\s)\]]+`)

// Callback is the decoded form of a refresh reference.
type Callback struct {
	Terms    string
	From     string
	To       string
	Label    string
	SubLabel string
}

// CallbackURL builds the reference a saved report uses to regenerate itself.
func CallbackURL(rawTerms string, iv period.Interval) string {
	q := url.Values{}
	q.Set("terms", rawTerms)
	q.Set("from", iv.FromString())
	q.Set("to", iv.ToString())
	q.Set("label", iv.Label)
	if iv.SubLabel != "" {
		q.Set("sub", iv.SubLabel)
	}
	u := url.URL{Scheme: callbackScheme, Host: callbackHost, RawQuery: q.Encode()}
	return u.String()
}

// ParseCallback decodes a reference built by CallbackURL.
func ParseCallback(raw string) (Callback, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Callback{}, fmt.Errorf("parsing callback: %w", err)
	}
	if u.Scheme != callbackScheme || u.Host != callbackHost {
		return Callback{}, fmt.Errorf("parsing callback: unexpected target %s://%s", u.Scheme, u.Host)
	}

	q := u.Query()
	cb := Callback{
		Terms:    q.Get("terms"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Label:    q.Get("label"),
		SubLabel: q.Get("sub"),
	}
	if strings.TrimSpace(cb.Terms) == "" {
		return Callback{}, fmt.Errorf("parsing callback: missing terms")
	}
	return cb, nil
}

// FindCallback extracts the first refresh reference from note content.
func FindCallback(content string) (Callback, bool) {
	raw := callbackPattern.FindString(content)
	if raw == "" {
		return Callback{}, false
	}
	cb, err := ParseCallback(raw)
	if err != nil {
		return Callback{}, false
	}
	return cb, true
}
