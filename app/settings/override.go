package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FeedOverride holds custom fetch options for a single feed.
// Zero value is not the default record, use DefaultFeedOverride to get one.
type FeedOverride struct {
	ProxyHost   string `json:"proxy_host" yaml:"proxy_host"`
	ProxyPort   int    `json:"proxy_port" yaml:"proxy_port"`
	UserAgent   string `json:"user_agent" yaml:"user_agent"`
	Cookies     string `json:"cookies" yaml:"cookies"`
	SSLVerify   bool   `json:"ssl_verify" yaml:"ssl_verify"`
	CalcReferer bool   `json:"calc_referer" yaml:"calc_referer"`
}

// DefaultFeedOverride returns record with all fields set to defaults. Such record is inactive.
func DefaultFeedOverride() FeedOverride {
	return FeedOverride{SSLVerify: true}
}

// Active reports if at least one field differs from its default.
// Proxy port alone doesn't count, it has no meaning without proxy host.
func (o FeedOverride) Active() bool {
	return o.ProxyHost != "" || o.UserAgent != "" || o.Cookies != "" || !o.SSLVerify || o.CalcReferer
}

// Validate checks the record can be used for a fetch.
// Missing proxy port is fine here, the proxy scheme's default port is used then.
func (o FeedOverride) Validate() error {
	if o.ProxyPort < 0 || o.ProxyPort > 65535 {
		return fmt.Errorf("proxy port %d out of range", o.ProxyPort)
	}
	for name, v := range map[string]string{"proxy host": o.ProxyHost, "user agent": o.UserAgent, "cookies": o.Cookies} {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%s contains line breaks", name)
		}
	}
	return nil
}

// normalize trims values and drops proxy port if no proxy host set
func (o FeedOverride) normalize() FeedOverride {
	o.ProxyHost = strings.TrimSpace(o.ProxyHost)
	o.UserAgent = strings.TrimSpace(o.UserAgent)
	o.Cookies = strings.TrimSpace(o.Cookies)
	if o.ProxyHost == "" {
		o.ProxyPort = 0
	}
	return o
}

// overrideFields used to decode with defaults applied to missing fields
type overrideFields FeedOverride

// UnmarshalJSON decodes record, missing ssl_verify stays true
func (o *FeedOverride) UnmarshalJSON(data []byte) error {
	v := overrideFields(DefaultFeedOverride())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = FeedOverride(v)
	return nil
}

// UnmarshalYAML decodes record, missing ssl_verify stays true
func (o *FeedOverride) UnmarshalYAML(value *yaml.Node) error {
	v := overrideFields(DefaultFeedOverride())
	if err := value.Decode(&v); err != nil {
		return err
	}
	*o = FeedOverride(v)
	return nil
}
